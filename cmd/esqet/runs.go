package main

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/esqet/internal/analysis"
	"github.com/san-kum/esqet/internal/automation"
	"github.com/san-kum/esqet/internal/config"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/export"
	"github.com/san-kum/esqet/internal/optim"
	"github.com/san-kum/esqet/internal/storage"
	"github.com/san-kum/esqet/internal/tui"
	"github.com/san-kum/esqet/internal/viz"
	"github.com/spf13/cobra"
)

var (
	snapshotIdx int
	svgSnapshot int
	probeIdx    int
	width       int
	height      int

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	sweepJobs   int

	searchAxes   []string
	searchMetric string
	maximize     bool
)

func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata (latest run by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a snapshot profile and the min/mean/max trend",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&snapshotIdx, "snapshot", -1, "snapshot index (negative counts from the end)")
	plotCmd.Flags().IntVar(&width, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 12, "plot height")

	heatmapCmd := &cobra.Command{
		Use:   "heatmap [run_id]",
		Short: "terminal heat map of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  heatmapRun,
	}
	heatmapCmd.Flags().IntVar(&width, "width", 80, "heat map width")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id] [out]",
		Short: "render a run's heat map, or one snapshot's profile, to SVG",
		Args:  cobra.MaximumNArgs(2),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgSnapshot, "snapshot", 0, "render this snapshot's profile instead (negative counts from the end)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run history to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and history to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "temporal and spatial spectra of a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&probeIdx, "index", -1, "grid index for the temporal spectrum (default: probe)")
	analyzeCmd.Flags().IntVar(&width, "width", 80, "plot width")
	analyzeCmd.Flags().IntVar(&height, "height", 12, "plot height")

	viewCmd := &cobra.Command{
		Use:   "view [run_id]",
		Short: "browse snapshots interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  viewRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file.yaml]",
		Short: "run a batch of configurations from a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "run one configuration across a range of a parameter",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	sweepCmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "strength", "parameter to vary")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.05, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 0.2, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 4, "number of values")
	sweepCmd.Flags().IntVarP(&sweepJobs, "jobs", "j", runtime.NumCPU(), "runs in parallel")

	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "grid search over parameters for the best run metric",
		Args:  cobra.NoArgs,
		RunE:  runSearch,
	}
	searchCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	searchCmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
	searchCmd.Flags().StringArrayVar(&searchAxes, "grid", nil, "axis as name=min:max:points or name=v1,v2 (repeatable)")
	searchCmd.Flags().StringVar(&searchMetric, "metric", "peak_amplitude", "run metric to optimize")
	searchCmd.Flags().BoolVar(&maximize, "maximize", false, "maximize instead of minimize")

	return []*cobra.Command{listCmd, showCmd, plotCmd, heatmapCmd, exportSVGCmd, exportCSVCmd, exportJSONCmd, analyzeCmd, viewCmd, presetsCmd, scenarioCmd, sweepCmd, searchCmd}
}

// loadRun returns the named run, or the latest one when no ID is given.
func loadRun(args []string) (*storage.RunMetadata, dynamo.History, error) {
	st := storage.New(dataDir)

	var meta *storage.RunMetadata
	var err error
	if len(args) > 0 && args[0] != "" {
		meta, err = st.Load(args[0])
	} else {
		meta, err = st.Latest()
	}
	if err != nil {
		return nil, nil, err
	}

	history, err := st.LoadHistory(meta.ID)
	if err != nil {
		return nil, nil, err
	}
	return meta, history, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tSTATUS\tSTEPS\tSNAPSHOTS\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%d\t%.3e\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Status,
			run.StepsTaken,
			run.Steps,
			run.Snapshots,
			run.Dt,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, _, err := loadRun(args)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, history, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to plot")
	}

	snap, err := pickSnapshot(history, snapshotIdx)
	if err != nil {
		return err
	}
	idx := snapshotIdx
	if idx < 0 {
		idx += len(history)
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("run %s", meta.ID)))
	fmt.Printf("%s  %s\n\n",
		viz.Metric("status", meta.Status),
		viz.Metric("snapshots", fmt.Sprint(len(history))))

	fmt.Println(viz.Profile(meta.Grid, snap, width, height,
		fmt.Sprintf("snapshot %d: step %d, t=%.4e", idx, snap.Step, snap.Time)))
	fmt.Println()
	fmt.Println(viz.Trend(history, width, height))
	return nil
}

func heatmapRun(cmd *cobra.Command, args []string) error {
	meta, history, err := loadRun(args)
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(fmt.Sprintf("run %s", meta.ID)))
	fmt.Println(viz.Heatmap(meta.Grid, history, width))
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, history, err := loadRun(args)
	if err != nil {
		return err
	}

	profile := cmd.Flags().Changed("snapshot")
	out := meta.ID + ".svg"
	if profile {
		out = fmt.Sprintf("%s_snapshot%d.svg", meta.ID, svgSnapshot)
	}
	if len(args) > 1 {
		out = args[1]
	}

	if profile {
		snap, err := pickSnapshot(history, svgSnapshot)
		if err != nil {
			return err
		}
		err = export.WriteProfile(out, meta.Grid, snap, string(viz.CurrentTheme.Primary))
		if err != nil {
			return err
		}
	} else if err := export.WriteHeatmap(out, meta.Grid, history, meta.Name); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

// pickSnapshot returns history[idx]; negative indices count from the end.
func pickSnapshot(history dynamo.History, idx int) (dynamo.Snapshot, error) {
	i := idx
	if i < 0 {
		i += len(history)
	}
	if i < 0 || i >= len(history) {
		return dynamo.Snapshot{}, fmt.Errorf("snapshot %d out of range [0, %d)", idx, len(history))
	}
	return history[i], nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, history, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.ExportCSV(os.Stdout, history)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, history, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, history)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, history, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("no data")
	}

	idx := probeIdx
	if idx < 0 {
		idx = meta.Probe
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("spectra: %s", meta.ID)))

	temporal, err := analysis.TemporalSpectrum(history, idx)
	if err != nil {
		fmt.Println(viz.StatusWarn.Render(fmt.Sprintf("temporal spectrum: %v", err)))
	} else {
		plotSpectrum(temporal, fmt.Sprintf("power vs frequency at i=%d", idx))
		f, _ := analysis.Dominant(temporal)
		fmt.Println(viz.Metric("dominant frequency", fmt.Sprintf("%.4e", f)))
		if f > 0 {
			fmt.Println(viz.Metric("period", fmt.Sprintf("%.4e", 1/f)))
		}
		fmt.Println()
	}

	last := history[len(history)-1]
	spatial, err := analysis.SpatialSpectrum(meta.Grid, last.Values, 256)
	if err != nil {
		return err
	}
	plotSpectrum(spatial, fmt.Sprintf("power vs wavenumber, step %d", last.Step))
	k, _ := analysis.Dominant(spatial)
	fmt.Println(viz.Metric("dominant wavenumber", fmt.Sprintf("%.4e", k)))
	if k > 0 {
		fmt.Println(viz.Metric("wavelength", fmt.Sprintf("%.4e", 1/k)))
	}
	return nil
}

func plotSpectrum(s analysis.Spectrum, caption string) {
	data := s.Power
	if len(data) > 4*width {
		data = data[:4*width]
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	))
}

func viewRun(cmd *cobra.Command, args []string) error {
	meta, history, err := loadRun(args)
	if err != nil {
		return err
	}
	return tui.Run(fmt.Sprintf("%s (%s)", meta.ID, meta.Status), meta.Grid, history)
}

func listPresets(cmd *cobra.Command, args []string) error {
	fmt.Println("presets:")
	for _, name := range config.ListPresets() {
		cfg := config.GetPreset(name)
		fmt.Printf("  %-10s %d points, %d steps, stride %d, sources %s\n",
			name, cfg.Domain.FibTerms+1, cfg.Run.Steps, cfg.Run.Stride, sourceLabel(cfg))
	}
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("sweep/search parameters: %v", config.DefaultConfig().ParamNames())))
	return nil
}

func sourceLabel(cfg *config.Config) string {
	if cfg.Sources.Zero {
		return "off"
	}
	return fmt.Sprintf("matter=%g exotic=%g", cfg.Sources.Matter, cfg.Sources.Exotic)
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("scenario %s: %d runs", sc.Name, len(sc.Steps))))
	if sc.Description != "" {
		fmt.Println(viz.Subtle.Render(sc.Description))
	}

	outcomes, runErr := automation.RunScenario(cmd.Context(), sc, logger)

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	for i, out := range outcomes {
		line := out.String()
		if sc.Steps[i].ShouldSave() {
			id, err := st.Save(out.Metadata(), out.Result.History)
			if err != nil {
				return err
			}
			line += "  " + viz.Subtle.Render(id)
		}
		if out.Err != nil {
			fmt.Println(viz.StatusWarn.Render(line))
		} else {
			fmt.Println(viz.StatusOK.Render(line))
		}
	}
	return runErr
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:   base,
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Points: sweepPoints,
		Jobs:   sweepJobs,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTATUS\tSNAPSHOTS\tPEAK\tF_QC\tSOURCE\n", sweepParam)
	for _, r := range results {
		status := r.Status
		if status == storage.StatusUnstable {
			status = fmt.Sprintf("%s@%d", status, r.AbortStep)
		}
		fmt.Fprintf(w, "%.4g\t%s\t%d\t%.4e\t%.4e\t%.4e\n",
			r.Value, status, r.Snapshots, r.PeakAmplitude, r.ProbeCoherence, r.ProbeSource)
	}
	return w.Flush()
}

func runSearch(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(searchAxes) == 0 {
		return fmt.Errorf("at least one --grid axis is required")
	}

	axes := make([]optim.Axis, 0, len(searchAxes))
	total := 1
	for _, a := range searchAxes {
		axis, err := optim.ParseAxis(a)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
		total *= len(axis.Values)
	}

	goal := "minimizing"
	if maximize {
		goal = "maximizing"
	}
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s %s over %d runs", goal, searchMetric, total)))

	best, err := optim.NewGridSearch(axes, logger).Search(cmd.Context(), base, optim.Metric(searchMetric, maximize))
	if err != nil {
		return err
	}

	names := make([]string, 0, len(best.Params))
	for name := range best.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Println(viz.Metric(name, fmt.Sprintf("%.6g", best.Params[name])))
	}
	value := best.Value
	if maximize {
		value = -value
	}
	fmt.Println(viz.Metric(searchMetric, fmt.Sprintf("%.6e", value)))
	if best.Failed > 0 {
		fmt.Println(viz.StatusWarn.Render(fmt.Sprintf("%d of %d runs unstable", best.Failed, best.Runs)))
	}
	return nil
}
