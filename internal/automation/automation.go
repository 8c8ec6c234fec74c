package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/san-kum/esqet/internal/config"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/experiment"
	"github.com/san-kum/esqet/internal/sim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Scenario is a batch of named runs read from one YAML file.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run. Config is decoded over the preset (or the
// default configuration), so it only needs the keys that differ.
type ScenarioStep struct {
	Name   string    `yaml:"name"`
	Preset string    `yaml:"preset"`
	Config yaml.Node `yaml:"config"`
	Save   *bool     `yaml:"save"`
}

// ShouldSave reports whether the step's run is persisted; default true.
func (s ScenarioStep) ShouldSave() bool {
	return s.Save == nil || *s.Save
}

// Resolve builds the step's configuration.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q: %w", s.Preset, dynamo.ErrInvalidConfig)
		}
	}
	if !s.Config.IsZero() {
		if err := s.Config.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode config: %w", err)
		}
	}
	if s.Name != "" {
		cfg.Name = s.Name
	}
	return cfg, cfg.Validate()
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps: %w", scenario.Name, dynamo.ErrInvalidConfig)
	}
	return &scenario, nil
}

// RunScenario executes every step in order. An unstable run is recorded and
// the batch continues; configuration errors and cancellation stop it.
func RunScenario(ctx context.Context, scenario *Scenario, log *zap.Logger, opts ...sim.Option) ([]*experiment.Outcome, error) {
	if log == nil {
		log = zap.NewNop()
	}
	outcomes := make([]*experiment.Outcome, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Resolve()
		if err != nil {
			return outcomes, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("name", cfg.Name))

		out, err := runOne(ctx, cfg, log, opts...)
		if out != nil {
			outcomes = append(outcomes, out)
		}
		if err != nil && !errors.Is(err, dynamo.ErrUnstable) {
			return outcomes, fmt.Errorf("step %d run: %w", i+1, err)
		}
	}

	return outcomes, nil
}

func runOne(ctx context.Context, cfg *config.Config, log *zap.Logger, opts ...sim.Option) (*experiment.Outcome, error) {
	exp, err := experiment.New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return exp.WithLogger(log).Run(ctx)
}

// ParameterSweep runs the base configuration once per value of one parameter,
// evenly spaced over [Min, Max]. Up to Jobs runs proceed at once; each run
// is still single-threaded.
type ParameterSweep struct {
	Base   *config.Config
	Param  string
	Min    float64
	Max    float64
	Points int
	Jobs   int
}

type SweepResult struct {
	Value          float64
	Status         string
	AbortStep      int
	Snapshots      int
	PeakAmplitude  float64
	ProbeCoherence float64
	ProbeSource    float64
}

func (s *ParameterSweep) Values() []float64 {
	if s.Points <= 1 {
		return []float64{s.Min}
	}
	vals := make([]float64, s.Points)
	step := (s.Max - s.Min) / float64(s.Points-1)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals
}

// RunSweep returns one result per value, in value order. Unstable runs are
// reported in their result; any other failure cancels the sweep.
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *zap.Logger) ([]SweepResult, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep needs a base config: %w", dynamo.ErrInvalidConfig)
	}

	values := sweep.Values()
	configs := make([]*config.Config, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		if err := cfg.SetParam(sweep.Param, v); err != nil {
			return nil, err
		}
		cfg.Name = fmt.Sprintf("%s_%s_%d", sweep.Base.Name, sweep.Param, i)
		configs[i] = cfg
	}

	results := make([]SweepResult, len(values))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(sweep.Jobs, 1))

	for i, cfg := range configs {
		i, cfg := i, cfg
		g.Go(func() error {
			out, err := runOne(gctx, cfg, log)
			if out == nil {
				return err
			}
			if err != nil && !errors.Is(err, dynamo.ErrUnstable) {
				return err
			}

			meta := out.Metadata()
			results[i] = SweepResult{
				Value:          values[i],
				Status:         meta.Status,
				AbortStep:      meta.AbortStep,
				Snapshots:      meta.Snapshots,
				PeakAmplitude:  out.Result.Metrics["peak_amplitude"],
				ProbeCoherence: meta.ProbeCoherence,
				ProbeSource:    meta.ProbeSource,
			}

			log.Debug("sweep point",
				zap.Int("index", i+1),
				zap.String("param", sweep.Param),
				zap.Float64("value", values[i]),
				zap.String("status", meta.Status))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
