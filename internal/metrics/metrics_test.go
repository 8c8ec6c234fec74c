package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/esqet/internal/dynamo"
)

func snap(step int, v ...float64) dynamo.Snapshot {
	return dynamo.Snapshot{Step: step, Values: dynamo.Field(v)}
}

func TestGradientEnergy(t *testing.T) {
	m := NewGradientEnergy([]float64{0, 1, 3})

	// differences 2 over h=1 and -2 over h=2
	m.Observe(snap(0, 0, 2, 0))
	if got := m.Value(); math.Abs(got-3.0) > 1e-12 {
		t.Errorf("expected energy 3, got %f", got)
	}

	m.Observe(snap(1, 0, 4, 0))
	if got := m.PeakRatio(); math.Abs(got-4.0) > 1e-12 {
		t.Errorf("expected peak ratio 4, got %f", got)
	}

	m.Reset()
	if m.Value() != 0 || m.PeakRatio() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEnergyGrowth(t *testing.T) {
	m := NewEnergyGrowth([]float64{0, 1, 3})
	if m.Name() != "energy_growth" {
		t.Errorf("unexpected name %q", m.Name())
	}

	m.Observe(snap(0, 0, 2, 0))
	m.Observe(snap(1, 0, 6, 0))
	m.Observe(snap(2, 0, 4, 0))
	if got := m.Value(); math.Abs(got-9.0) > 1e-12 {
		t.Errorf("expected growth 9, got %f", got)
	}
}

func TestStability(t *testing.T) {
	m := NewStability(1.0, 0.5)
	if m.Value() != 1.0 {
		t.Errorf("expected 1.0 with no samples, got %f", m.Value())
	}

	m.Observe(snap(0, 1.0, 1.2, 1.0))
	m.Observe(snap(1, 1.0, 2.0, 1.0))
	if got := m.Value(); got != 0.5 {
		t.Errorf("expected 0.5, got %f", got)
	}
}

func TestPeakAmplitude(t *testing.T) {
	m := NewPeakAmplitude(1e-5)
	m.Observe(snap(0, 1e-5, 0.1, 1e-5))
	m.Observe(snap(1, 1e-5, -0.2, 1e-5))

	if got := m.Value(); math.Abs(got-(0.2+1e-5)) > 1e-15 {
		t.Errorf("expected %g, got %g", 0.2+1e-5, got)
	}
}

func TestBoundaryDrift(t *testing.T) {
	m := NewBoundaryDrift(1.0)
	m.Observe(snap(0, 1.0, 5.0, 1.0))
	if m.Value() != 0 {
		t.Errorf("interior values must not count, got %g", m.Value())
	}

	m.Observe(snap(1, 1.25, 5.0, 1.0))
	if m.Value() != 0.25 {
		t.Errorf("expected 0.25, got %g", m.Value())
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(snap(7, 1, -2, 4))
	if s.Step != 7 || s.Min != -2 || s.Max != 4 || s.Mean != 1 {
		t.Errorf("unexpected stats %+v", s)
	}
}

func TestDefaults(t *testing.T) {
	ms := Defaults([]float64{0, 1, 2}, 0, 1)
	seen := map[string]bool{}
	for _, m := range ms {
		seen[m.Name()] = true
	}
	for _, name := range []string{"gradient_energy", "energy_growth", "stability", "peak_amplitude", "boundary_drift"} {
		if !seen[name] {
			t.Errorf("missing default metric %s", name)
		}
	}
}
