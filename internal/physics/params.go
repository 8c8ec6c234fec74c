package physics

import "math"

// Params are the coupling and scale constants of one run.
type Params struct {
	G0          float64 `yaml:"g0" json:"g0"`
	GNewton     float64 `yaml:"g_newton" json:"g_newton"`
	C           float64 `yaml:"c" json:"c"`
	KB          float64 `yaml:"k_b" json:"k_b"`
	IUnit       float64 `yaml:"i_unit" json:"i_unit"`
	Beta        float64 `yaml:"beta" json:"beta"`
	AlphaDE     float64 `yaml:"alpha_de" json:"alpha_de"`
	AlphaDM     float64 `yaml:"alpha_dm" json:"alpha_dm"`
	GammaExotic float64 `yaml:"gamma_exotic" json:"gamma_exotic"`
	Eta         float64 `yaml:"eta" json:"eta"`
	Phi         float64 `yaml:"phi" json:"phi"`
	QTele       float64 `yaml:"q_tele" json:"q_tele"`
	Scaling     float64 `yaml:"scaling" json:"scaling"`

	// Field-to-proxy transforms: D_ent = S*EntanglementScale,
	// T_vac = max(S*VacuumScale, VacuumFloor).
	EntanglementScale float64 `yaml:"entanglement_scale" json:"entanglement_scale"`
	VacuumScale       float64 `yaml:"vacuum_scale" json:"vacuum_scale"`
	VacuumFloor       float64 `yaml:"vacuum_floor" json:"vacuum_floor"`
	DensityFloor      float64 `yaml:"density_floor" json:"density_floor"`
}

var Phi = (1 + math.Sqrt(5)) / 2

func DefaultParams() Params {
	return Params{
		G0:                1.0,
		GNewton:           6.67430e-11,
		C:                 2.99792458e8,
		KB:                1.380649e-23,
		IUnit:             1e-34,
		Beta:              0.1,
		AlphaDE:           0.5,
		AlphaDM:           0.3,
		GammaExotic:       0.2,
		Eta:               0.1,
		Phi:               Phi,
		QTele:             0.5,
		Scaling:           1e25,
		EntanglementScale: 1e18,
		VacuumScale:       1e-25,
		VacuumFloor:       1e-30,
		DensityFloor:      1e-30,
	}
}

func (p Params) GetParams() map[string]float64 {
	return map[string]float64{
		"g0": p.G0, "g_newton": p.GNewton, "c": p.C, "k_b": p.KB, "i_unit": p.IUnit,
		"beta": p.Beta, "alpha_de": p.AlphaDE, "alpha_dm": p.AlphaDM,
		"gamma_exotic": p.GammaExotic, "eta": p.Eta, "phi": p.Phi, "q_tele": p.QTele,
		"scaling": p.Scaling, "entanglement_scale": p.EntanglementScale,
		"vacuum_scale": p.VacuumScale, "vacuum_floor": p.VacuumFloor,
		"density_floor": p.DensityFloor,
	}
}

// WithParam returns a copy of p with the named constant replaced.
func (p Params) WithParam(name string, v float64) (Params, bool) {
	fields := map[string]*float64{
		"g0": &p.G0, "g_newton": &p.GNewton, "c": &p.C, "k_b": &p.KB, "i_unit": &p.IUnit,
		"beta": &p.Beta, "alpha_de": &p.AlphaDE, "alpha_dm": &p.AlphaDM,
		"gamma_exotic": &p.GammaExotic, "eta": &p.Eta, "phi": &p.Phi, "q_tele": &p.QTele,
		"scaling": &p.Scaling, "entanglement_scale": &p.EntanglementScale,
		"vacuum_scale": &p.VacuumScale, "vacuum_floor": &p.VacuumFloor,
		"density_floor": &p.DensityFloor,
	}
	f, ok := fields[name]
	if !ok {
		return p, false
	}
	*f = v
	return p, true
}
