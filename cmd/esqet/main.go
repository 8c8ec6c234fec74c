package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/san-kum/esqet/internal/config"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/experiment"
	"github.com/san-kum/esqet/internal/export"
	"github.com/san-kum/esqet/internal/metrics"
	"github.com/san-kum/esqet/internal/sim"
	"github.com/san-kum/esqet/internal/storage"
	"github.com/san-kum/esqet/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	steps      int
	stride     int
	image      string
	runName    string
	noSave     bool
	quiet      bool
	theme      string

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "esqet",
		Short: "scalar field finite-difference lab",
		Long: `esqet integrates a 1-D scalar wave equation with a self-referential
coherence source on a Fibonacci-partitioned grid.

Run without arguments to integrate the default configuration.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			viz.SetTheme(theme)

			zc := zap.NewProductionConfig()
			zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := zc.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: runSimulation,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".esqet", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&theme, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("colour theme %v", viz.ThemeNames()))
	addRunFlags(rootCmd)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run the integrator",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(runCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	cmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "number of time steps")
	cmd.Flags().IntVar(&stride, "stride", config.DefaultStride, "snapshot every this many steps")
	cmd.Flags().StringVar(&image, "image", config.DefaultImage, "heat map output path (empty to skip)")
	cmd.Flags().StringVar(&runName, "name", "", "run name")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress per-snapshot reports")
}

// resolveConfig layers defaults, preset, config file and changed flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(cfg, configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.Run.Steps = steps
	}
	if flags.Changed("stride") {
		cfg.Run.Stride = stride
	}
	if flags.Changed("image") {
		cfg.Output.Image = image
	}
	if flags.Changed("name") {
		cfg.Name = runName
	}

	return cfg, cfg.Validate()
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	var opts []sim.Option
	if !quiet {
		opts = append(opts, sim.WithObservers(sim.ObserverFunc(func(s dynamo.Snapshot) {
			fmt.Println(viz.SnapshotLine(metrics.Summarize(s), cfg.Run.Steps))
		})))
	}
	opts = append(opts, sim.WithLogger(logger))

	exp, err := experiment.New(cfg, opts...)
	if err != nil {
		return err
	}

	g := exp.Grid()
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s: %d points on [%.3g, %.3g], %d steps, snapshot every %d",
		cfg.Name, g.Len(), g.At(0), g.At(g.Len()-1), cfg.Run.Steps, cfg.Run.Stride)))
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("dt = %.4e, probe i=%d (x=%.4f)", exp.Simulator().TimeStep(), exp.Probe(), g.At(exp.Probe()))))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, runErr := exp.WithLogger(logger).Run(ctx)
	if out == nil {
		return runErr
	}

	coh, src := out.ProbeValues()
	fmt.Println()
	fmt.Println(viz.ProbeReport(out.Probe, out.Grid[out.Probe], coh, src))

	persistErr := persist(out)
	if persistErr != nil {
		fmt.Println(viz.StatusWarn.Render(persistErr.Error()))
	}

	var simErr *dynamo.SimulationError
	switch {
	case errors.As(runErr, &simErr):
		fmt.Println(viz.StatusError.Render(fmt.Sprintf("numerical instability at step %d (t=%.4e)", simErr.Step, simErr.Time)))
		return errors.Join(runErr, persistErr)
	case runErr != nil:
		fmt.Println(viz.StatusWarn.Render(fmt.Sprintf("interrupted after %d steps", out.Result.StepsTaken)))
		return errors.Join(runErr, persistErr)
	}

	fmt.Println(viz.StatusOK.Render(fmt.Sprintf("completed in %v, %d snapshots", out.Duration, len(out.Result.History))))
	return persistErr
}

// persist stores the run and writes the heat map, whatever the outcome.
// A storage failure does not prevent the image from being written.
func persist(out *experiment.Outcome) error {
	var saveErr error
	if !noSave {
		st := storage.New(dataDir)
		id, err := saveRun(st, out)
		if err != nil {
			saveErr = fmt.Errorf("store run: %w", err)
		} else {
			fmt.Println(viz.Metric("run id", id))
		}
	}

	img := out.Config.Output.Image
	if img == "" || len(out.Result.History) == 0 {
		return saveErr
	}
	if err := export.WriteHeatmap(img, out.Grid, out.Result.History, out.Config.Name); err != nil {
		return errors.Join(saveErr, err)
	}
	fmt.Println(viz.Metric("heat map", img))
	return saveErr
}

func saveRun(st *storage.Store, out *experiment.Outcome) (string, error) {
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(out.Metadata(), out.Result.History)
}
