package experiment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/san-kum/esqet/internal/config"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/metrics"
	"github.com/san-kum/esqet/internal/physics"
	"github.com/san-kum/esqet/internal/sim"
	"github.com/san-kum/esqet/internal/storage"
	"go.uber.org/zap"
)

// Deviation from the baseline beyond this multiple of the pulse strength
// counts against the stability metric.
const stabilityFactor = 3.0

// Experiment assembles a simulator from a config.
type Experiment struct {
	cfg       *config.Config
	grid      *physics.Grid
	probe     int
	initial   dynamo.Field
	simulator *sim.Simulator
	log       *zap.Logger
}

// Outcome is a finished (or aborted) run together with what is needed to
// report and persist it.
type Outcome struct {
	Config   *config.Config
	Grid     []float64
	Probe    int
	Result   *dynamo.Result
	Err      error
	Started  time.Time
	Duration time.Duration
}

func New(cfg *config.Config, opts ...sim.Option) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	grid, err := cfg.Grid()
	if err != nil {
		return nil, err
	}
	sources, probe := cfg.SourceLayout(grid)

	x := grid.Points()
	threshold := stabilityFactor * cfg.Perturbation.Strength
	opts = append([]sim.Option{sim.WithMetrics(metrics.Defaults(x, cfg.Run.Baseline, threshold)...)}, opts...)

	s, err := sim.New(grid, cfg.Params, sources, opts...)
	if err != nil {
		return nil, err
	}

	return &Experiment{
		cfg:       cfg,
		grid:      grid,
		probe:     probe,
		initial:   cfg.Initial(grid),
		simulator: s,
		log:       zap.NewNop(),
	}, nil
}

// WithLogger sets the logger used for run-level events.
func (e *Experiment) WithLogger(l *zap.Logger) *Experiment {
	if l != nil {
		e.log = l
	}
	return e
}

func (e *Experiment) Grid() *physics.Grid { return e.grid }

// Probe is the source-centre index used for the final report.
func (e *Experiment) Probe() int { return e.probe }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

// Run integrates from the configured initial field, used for both the
// previous and current time levels. A non-nil Outcome is returned whenever
// the simulator produced a result, even if the run was aborted; the abort
// reason is then both returned and kept in Outcome.Err.
func (e *Experiment) Run(ctx context.Context) (*Outcome, error) {
	start := time.Now()
	e.log.Info("run",
		zap.String("name", e.cfg.Name),
		zap.Int("points", e.grid.Len()),
		zap.Int("steps", e.cfg.Run.Steps),
		zap.Int("stride", e.cfg.Run.Stride))

	res, err := e.simulator.Run(ctx, e.initial, e.initial, e.cfg.RunConfig())
	if res == nil {
		return nil, err
	}

	out := &Outcome{
		Config:   e.cfg,
		Grid:     e.grid.Points(),
		Probe:    e.probe,
		Result:   res,
		Err:      err,
		Started:  start,
		Duration: time.Since(start),
	}

	var simErr *dynamo.SimulationError
	switch {
	case errors.As(err, &simErr):
		e.log.Warn("run aborted", zap.Int("step", simErr.Step), zap.Error(err))
	case err != nil:
		e.log.Warn("run interrupted", zap.Int("steps_taken", res.StepsTaken), zap.Error(err))
	default:
		e.log.Info("run complete",
			zap.Int("snapshots", len(res.History)),
			zap.Duration("elapsed", out.Duration))
	}
	return out, err
}

// ProbeValues returns the coherence multiplier and source term at the probe
// index from the last step taken.
func (o *Outcome) ProbeValues() (coherence, source float64) {
	if o.Result == nil || o.Probe >= len(o.Result.Coherence) {
		return 0, 0
	}
	return o.Result.Coherence[o.Probe], o.Result.Source[o.Probe]
}

// Status classifies the run for storage.
func (o *Outcome) Status() string {
	var simErr *dynamo.SimulationError
	switch {
	case o.Err == nil:
		return storage.StatusComplete
	case errors.As(o.Err, &simErr):
		return storage.StatusUnstable
	default:
		return storage.StatusCanceled
	}
}

// Metadata describes the outcome for the run store.
func (o *Outcome) Metadata() storage.RunMetadata {
	coh, src := o.ProbeValues()
	meta := storage.RunMetadata{
		Name:           o.Config.Name,
		Timestamp:      o.Started,
		Status:         o.Status(),
		Steps:          o.Config.Run.Steps,
		Stride:         o.Config.Run.Stride,
		StepsTaken:     o.Result.StepsTaken,
		Snapshots:      len(o.Result.History),
		Baseline:       o.Config.Run.Baseline,
		Dt:             o.Result.Dt,
		Grid:           o.Grid,
		Probe:          o.Probe,
		ProbeCoherence: coh,
		ProbeSource:    src,
		Params:         o.Config.Params,
		Metrics:        o.Result.Metrics,
	}
	var simErr *dynamo.SimulationError
	if errors.As(o.Err, &simErr) {
		meta.AbortStep = simErr.Step
	}
	return meta
}

func (o *Outcome) String() string {
	return fmt.Sprintf("%s: %s, %d snapshots, %d/%d steps",
		o.Config.Name, o.Status(), len(o.Result.History), o.Result.StepsTaken, o.Config.Run.Steps)
}
