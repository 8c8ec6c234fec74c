package optim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/esqet/internal/config"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/experiment"
	"go.uber.org/zap"
)

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// ParseAxis reads "name=min:max:points" or "name=v1,v2,...".
func ParseAxis(s string) (Axis, error) {
	name, spec, ok := strings.Cut(s, "=")
	if !ok || name == "" || spec == "" {
		return Axis{}, fmt.Errorf("axis %q: want name=min:max:points or name=v1,v2: %w", s, dynamo.ErrInvalidConfig)
	}

	if parts := strings.Split(spec, ":"); len(parts) == 3 {
		lo, err1 := strconv.ParseFloat(parts[0], 64)
		hi, err2 := strconv.ParseFloat(parts[1], 64)
		n, err3 := strconv.Atoi(parts[2])
		if err := errors.Join(err1, err2, err3); err != nil {
			return Axis{}, fmt.Errorf("axis %q: %v: %w", s, err, dynamo.ErrInvalidConfig)
		}
		if n < 1 {
			return Axis{}, fmt.Errorf("axis %q needs at least one point: %w", s, dynamo.ErrInvalidConfig)
		}
		return Axis{Name: name, Values: linspace(lo, hi, n)}, nil
	}

	var vals []float64
	for _, f := range strings.Split(spec, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return Axis{}, fmt.Errorf("axis %q: %v: %w", s, err, dynamo.ErrInvalidConfig)
		}
		vals = append(vals, v)
	}
	return Axis{Name: name, Values: vals}, nil
}

func linspace(lo, hi float64, n int) []float64 {
	if n == 1 {
		return []float64{lo}
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*(hi-lo)/float64(n-1)
	}
	return out
}

// GridSearch runs every combination of its axes and keeps the one with the
// lowest objective. Unstable runs are skipped.
type GridSearch struct {
	axes []Axis
	log  *zap.Logger
}

type Best struct {
	Params map[string]float64
	Value  float64
	Runs   int
	Failed int
}

func NewGridSearch(axes []Axis, log *zap.Logger) *GridSearch {
	if log == nil {
		log = zap.NewNop()
	}
	return &GridSearch{axes: axes, log: log}
}

// Objective scores one run; lower is better.
type Objective func(*experiment.Outcome) (float64, error)

// Metric minimizes the named run metric, or maximizes it when negate is set.
// A name the run did not record is an error.
func Metric(name string, negate bool) Objective {
	return func(o *experiment.Outcome) (float64, error) {
		v, ok := o.Result.Metrics[name]
		if !ok {
			names := make([]string, 0, len(o.Result.Metrics))
			for n := range o.Result.Metrics {
				names = append(names, n)
			}
			sort.Strings(names)
			return 0, fmt.Errorf("unknown metric %q (available: %v): %w", name, names, dynamo.ErrInvalidConfig)
		}
		if negate {
			return -v, nil
		}
		return v, nil
	}
}

func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	objective Objective,
) (*Best, error) {
	best := &Best{Value: math.Inf(1)}
	if err := g.searchRecursive(ctx, 0, base, make(map[string]float64), objective, best); err != nil {
		return best, err
	}
	if best.Params == nil {
		return best, fmt.Errorf("all %d runs failed: %w", best.Failed, dynamo.ErrUnstable)
	}
	return best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	base *config.Config,
	current map[string]float64,
	objective Objective,
	best *Best,
) error {
	if depth == len(g.axes) {
		return g.evaluate(ctx, base, current, objective, best)
	}

	axis := g.axes[depth]
	for _, val := range axis.Values {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[axis.Name] = val

		if err := g.searchRecursive(ctx, depth+1, base, next, objective, best); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(
	ctx context.Context,
	base *config.Config,
	params map[string]float64,
	objective Objective,
	best *Best,
) error {
	cfg := base.Clone()
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			return err
		}
	}

	exp, err := experiment.New(cfg)
	if err != nil {
		return err
	}
	best.Runs++

	out, err := exp.Run(ctx)
	if errors.Is(err, dynamo.ErrUnstable) {
		best.Failed++
		g.log.Debug("grid point unstable", zap.Any("params", params))
		return nil
	}
	if err != nil {
		return err
	}

	val, err := objective(out)
	if err != nil {
		return err
	}
	g.log.Debug("grid point", zap.Any("params", params), zap.Float64("objective", val))
	if val < best.Value {
		best.Value = val
		best.Params = params
	}
	return nil
}
