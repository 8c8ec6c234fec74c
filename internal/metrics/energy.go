package metrics

import (
	"github.com/san-kum/esqet/internal/dynamo"
)

// GradientEnergy tracks ½ Σ (Δs/h)² h over the grid, the potential part of
// the discrete wave energy.
type GradientEnergy struct {
	name    string
	x       []float64
	initial float64
	current float64
	maxRel  float64
	samples int
}

func NewGradientEnergy(x []float64) *GradientEnergy {
	c := make([]float64, len(x))
	copy(c, x)
	return &GradientEnergy{name: "gradient_energy", x: c}
}

func (e *GradientEnergy) Name() string { return e.name }

func (e *GradientEnergy) Energy(s dynamo.Field) float64 {
	total := 0.0
	for i := 0; i+1 < len(s) && i+1 < len(e.x); i++ {
		h := e.x[i+1] - e.x[i]
		d := s[i+1] - s[i]
		total += 0.5 * d * d / h
	}
	return total
}

func (e *GradientEnergy) Observe(s dynamo.Snapshot) {
	en := e.Energy(s.Values)
	if e.samples == 0 {
		e.initial = en
	}
	e.current = en
	e.samples++
	if e.initial != 0 && en/e.initial > e.maxRel {
		e.maxRel = en / e.initial
	}
}

// Value is the energy of the latest snapshot.
func (e *GradientEnergy) Value() float64 { return e.current }

// PeakRatio is the largest energy seen relative to the first snapshot.
func (e *GradientEnergy) PeakRatio() float64 { return e.maxRel }

func (e *GradientEnergy) Reset() {
	e.initial = 0
	e.current = 0
	e.maxRel = 0
	e.samples = 0
}

// EnergyGrowth reports the gradient energy's peak ratio to its first
// snapshot as the run value.
type EnergyGrowth struct {
	*GradientEnergy
}

func NewEnergyGrowth(x []float64) *EnergyGrowth {
	return &EnergyGrowth{GradientEnergy: NewGradientEnergy(x)}
}

func (g *EnergyGrowth) Name() string   { return "energy_growth" }
func (g *EnergyGrowth) Value() float64 { return g.PeakRatio() }
