package dynamo

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Field holds the scalar field value at every grid point.
type Field []float64

func NewField(n int, fill float64) Field {
	f := make(Field, n)
	for i := range f {
		f[i] = fill
	}
	return f
}

func (f Field) Clone() Field {
	c := make(Field, len(f))
	copy(c, f)
	return c
}

func (f Field) IsValid() bool {
	for _, v := range f {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (f Field) Min() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Min(f)
}

func (f Field) Max() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Max(f)
}

func (f Field) Mean() float64 {
	if len(f) == 0 {
		return 0
	}
	return floats.Sum(f) / float64(len(f))
}

// Snapshot is an independent copy of the current field taken after Step.
type Snapshot struct {
	Step   int     `json:"step"`
	Time   float64 `json:"time"`
	Values Field   `json:"values"`
}

type History []Snapshot

// Bounds returns the global min and max over every snapshot.
func (h History) Bounds() (lo, hi float64) {
	first := true
	for _, s := range h {
		if len(s.Values) == 0 {
			continue
		}
		mn, mx := s.Values.Min(), s.Values.Max()
		if first {
			lo, hi, first = mn, mx, false
			continue
		}
		lo, hi = math.Min(lo, mn), math.Max(hi, mx)
	}
	return lo, hi
}

// Observer receives every recorded snapshot, followed by the non-finite
// snapshot that aborts an unstable run.
type Observer interface {
	OnSnapshot(s Snapshot)
}

type Metric interface {
	Name() string
	Observe(s Snapshot)
	Value() float64
	Reset()
}

type Config struct {
	Steps    int
	Stride   int
	Baseline float64
}

func DefaultConfig() Config {
	return Config{
		Steps:    5000,
		Stride:   250,
		Baseline: 1e-5,
	}
}

// ExpectedSnapshots is the number of snapshots a complete run records:
// every Stride-th step counted from zero plus the final step.
func (c Config) ExpectedSnapshots() int {
	if c.Steps <= 0 || c.Stride <= 0 {
		return 0
	}
	n := (c.Steps + c.Stride - 1) / c.Stride
	if (c.Steps-1)%c.Stride != 0 {
		n++
	}
	return n
}

type Result struct {
	History    History
	Dt         float64
	StepsTaken int
	Metrics    map[string]float64
	// Coherence and Source hold the multiplier and source term of the last step taken.
	Coherence []float64
	Source    []float64
}
