package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/integrators"
	"github.com/san-kum/esqet/internal/physics"
	"go.uber.org/zap"
)

// Simulator integrates the scalar field over a fixed grid, parameter set
// and source layout. It is not safe for concurrent use.
type Simulator struct {
	grid      *physics.Grid
	x         []float64
	params    physics.Params
	samples   []physics.Sample
	stepper   *integrators.Leapfrog
	metrics   []dynamo.Metric
	observers []dynamo.Observer
	log       *zap.Logger
}

func New(grid *physics.Grid, params physics.Params, sources *physics.Densities, opts ...Option) (*Simulator, error) {
	if grid == nil || sources == nil {
		return nil, fmt.Errorf("grid and sources are required: %w", dynamo.ErrInvalidConfig)
	}
	if err := sources.Validate(grid.Len()); err != nil {
		return nil, err
	}
	if params.C <= 0 {
		return nil, fmt.Errorf("wave speed must be positive, got %g: %w", params.C, dynamo.ErrInvalidConfig)
	}

	s := &Simulator{
		grid:    grid,
		x:       grid.Points(),
		params:  params,
		samples: sources.Samples(),
		stepper: integrators.NewLeapfrog(params.C),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// TimeStep is 0.1 * (minimum grid spacing) / c.
func (s *Simulator) TimeStep() float64 {
	return s.stepper.StableStep(s.grid.MinSpacing())
}

// Run advances the field cfg.Steps times starting from the two time levels
// prev and cur. Every cfg.Stride-th step (counting from zero) and the final
// step are recorded. The first snapshot holding a non-finite value aborts
// the run with a *dynamo.SimulationError wrapping dynamo.ErrUnstable; the
// returned result then holds every snapshot taken before it. Observers are
// still shown that last snapshot.
func (s *Simulator) Run(ctx context.Context, prev0, cur0 dynamo.Field, cfg dynamo.Config) (*dynamo.Result, error) {
	if err := s.validate(prev0, cur0, cfg); err != nil {
		return nil, err
	}

	n := s.grid.Len()
	dt := s.TimeStep()
	result := &dynamo.Result{
		History:   make(dynamo.History, 0, cfg.ExpectedSnapshots()),
		Dt:        dt,
		Metrics:   make(map[string]float64),
		Coherence: make([]float64, n),
		Source:    make([]float64, n),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	prev, cur := prev0.Clone(), cur0.Clone()
	next := dynamo.NewField(n, cfg.Baseline)
	lap := make([]float64, n)
	coh, src := result.Coherence, result.Source

	s.log.Debug("run started",
		zap.Int("points", n),
		zap.Int("steps", cfg.Steps),
		zap.Int("stride", cfg.Stride),
		zap.Float64("dt", dt))

	for t := 0; t < cfg.Steps; t++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		next[0], next[n-1] = cfg.Baseline, cfg.Baseline

		integrators.Laplacian(s.x, cur, lap)
		for i := 1; i < n-1; i++ {
			coh[i] = s.params.Coherence(cur[i], s.samples[i])
			src[i] = s.params.Source(s.samples[i], coh[i])
			next[i] = s.stepper.Next(prev[i], cur[i], src[i]+lap[i], dt)
		}

		prev, cur, next = cur, next, prev
		result.StepsTaken++

		if t%cfg.Stride != 0 && t != cfg.Steps-1 {
			continue
		}

		snap := dynamo.Snapshot{Step: t, Time: float64(t+1) * dt, Values: cur.Clone()}
		if !snap.Values.IsValid() {
			s.log.Error("non-finite field value",
				zap.Int("step", t),
				zap.Int("snapshots", len(result.History)),
				zap.Float64("min", snap.Values.Min()),
				zap.Float64("max", snap.Values.Max()),
				zap.Float64("mean", snap.Values.Mean()))
			// observers see the diverged snapshot; history and metrics do not
			for _, o := range s.observers {
				o.OnSnapshot(snap)
			}
			s.collect(result)
			return result, &dynamo.SimulationError{Step: t, Time: snap.Time, Wrapped: dynamo.ErrUnstable}
		}

		result.History = append(result.History, snap)
		for _, m := range s.metrics {
			m.Observe(snap)
		}
		for _, o := range s.observers {
			o.OnSnapshot(snap)
		}
	}

	s.collect(result)
	s.log.Debug("run finished", zap.Int("snapshots", len(result.History)))
	return result, nil
}

func (s *Simulator) collect(result *dynamo.Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) validate(prev, cur dynamo.Field, cfg dynamo.Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d: %w", cfg.Steps, dynamo.ErrInvalidConfig)
	}
	if cfg.Stride <= 0 {
		return fmt.Errorf("stride must be positive, got %d: %w", cfg.Stride, dynamo.ErrInvalidConfig)
	}
	n := s.grid.Len()
	if len(prev) != n || len(cur) != n {
		return fmt.Errorf("field lengths %d/%d, grid has %d points: %w", len(prev), len(cur), n, dynamo.ErrDimensionMismatch)
	}
	return nil
}
