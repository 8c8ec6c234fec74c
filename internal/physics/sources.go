package physics

import (
	"fmt"

	"github.com/san-kum/esqet/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Densities are the source density arrays aligned with the grid. They are
// constant for a run.
type Densities struct {
	Matter     []float64 `json:"matter"`
	EM         []float64 `json:"em"`
	DarkMatter []float64 `json:"dark_matter"`
	DarkEnergy []float64 `json:"dark_energy"`
	Exotic     []float64 `json:"exotic"`
}

// Sample is the density state seen by a single grid point. Dark matter and
// dark energy enter the coherence ratios through their grid means.
type Sample struct {
	Matter, EM, DarkMatter, DarkEnergy, Exotic float64
	MeanDarkMatter, MeanDarkEnergy             float64
}

// Total is the local density ρ_M + ρ_EM/c² + ρ_DM + ρ_DE.
func (s Sample) Total(c float64) float64 {
	return s.Matter + s.EM/(c*c) + s.DarkMatter + s.DarkEnergy
}

// Weighted is the local density sum that drives the source, with exotic
// matter entering negatively.
func (s Sample) Weighted(c, gamma float64) float64 {
	return s.Total(c) - gamma*s.Exotic
}

func ZeroSources(n int) *Densities {
	return &Densities{
		Matter:     make([]float64, n),
		EM:         make([]float64, n),
		DarkMatter: make([]float64, n),
		DarkEnergy: make([]float64, n),
		Exotic:     make([]float64, n),
	}
}

// LocalizedSources places a matter slab over five points around the
// index int(N/φ) and a negative-density exotic slab over the two points
// beyond it. It returns the densities and the slab centre index.
func LocalizedSources(g *Grid, matter, exotic float64) (*Densities, int) {
	n := g.Len()
	last := n - 1
	center := g.Nearest(g.At(clamp(int(float64(last)/Phi), 0, last)))

	d := ZeroSources(n)
	fill(d.Matter, center-2, center+2, matter)
	fill(d.Exotic, center+3, center+4, exotic)
	return d, center
}

func (d *Densities) Len() int { return len(d.Matter) }

func (d *Densities) Validate(n int) error {
	for name, a := range map[string][]float64{
		"matter": d.Matter, "em": d.EM, "dark_matter": d.DarkMatter,
		"dark_energy": d.DarkEnergy, "exotic": d.Exotic,
	} {
		if len(a) != n {
			return fmt.Errorf("%s has %d values, grid has %d: %w", name, len(a), n, dynamo.ErrDimensionMismatch)
		}
	}
	return nil
}

// Samples resolves the per-point density state once for the whole run.
func (d *Densities) Samples() []Sample {
	n := d.Len()
	meanDM, meanDE := mean(d.DarkMatter), mean(d.DarkEnergy)
	out := make([]Sample, n)
	for i := range out {
		out[i] = Sample{
			Matter:         d.Matter[i],
			EM:             d.EM[i],
			DarkMatter:     d.DarkMatter[i],
			DarkEnergy:     d.DarkEnergy[i],
			Exotic:         d.Exotic[i],
			MeanDarkMatter: meanDM,
			MeanDarkEnergy: meanDE,
		}
	}
	return out
}

func mean(a []float64) float64 {
	if len(a) == 0 {
		return 0
	}
	return floats.Sum(a) / float64(len(a))
}

func fill(a []float64, from, to int, v float64) {
	for i := clamp(from, 0, len(a)); i <= to && i < len(a); i++ {
		a[i] = v
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
