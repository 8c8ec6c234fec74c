package physics

import "math"

// EntanglementDensity is the entanglement proxy derived from the field value.
func (p Params) EntanglementDensity(s float64) float64 {
	return s * p.EntanglementScale
}

// VacuumEnergy is the vacuum-scale proxy derived from the field value.
func (p Params) VacuumEnergy(s float64) float64 {
	return math.Max(s*p.VacuumScale, p.VacuumFloor)
}

// Coherence evaluates the five-term multiplier F_QC at a point whose field
// value is s. The field feeds its own multiplier through the two proxies.
func (p Params) Coherence(s float64, d Sample) float64 {
	total := math.Max(d.Total(p.C), p.DensityFloor)

	ent := 1 + p.Beta*(p.Phi*p.EntanglementDensity(s)*p.IUnit)/(p.KB*p.VacuumEnergy(s))
	de := 1 + p.AlphaDE*(d.MeanDarkEnergy/total)
	dm := 1 + p.AlphaDM*(d.MeanDarkMatter/total)
	exotic := 1 - p.GammaExotic*d.Exotic
	tele := 1 + p.Eta*p.QTele

	return ent * de * dm * exotic * tele
}

// SourcePrefactor is Scaling * G0 * GNewton / c^2.
func (p Params) SourcePrefactor() float64 {
	return p.Scaling * (p.G0 * p.GNewton / (p.C * p.C))
}

// Source is the right-hand-side term for a point with densities d and multiplier f.
func (p Params) Source(d Sample, f float64) float64 {
	return p.SourcePrefactor() * d.Weighted(p.C, p.GammaExotic) * f
}
