package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/esqet/internal/dynamo"
)

func TestLocalizedSources(t *testing.T) {
	g, _ := FibonacciGrid(10, 12)
	d, center := LocalizedSources(g, 1000, -100)

	if center != 7 {
		t.Fatalf("expected centre index 7, got %d", center)
	}
	for i := 0; i < g.Len(); i++ {
		wantM, wantX := 0.0, 0.0
		if i >= 5 && i <= 9 {
			wantM = 1000
		}
		if i == 10 || i == 11 {
			wantX = -100
		}
		if d.Matter[i] != wantM || d.Exotic[i] != wantX {
			t.Errorf("i=%d: matter %g exotic %g", i, d.Matter[i], d.Exotic[i])
		}
	}
	if err := d.Validate(g.Len()); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLocalizedSourcesClipsAtEdge(t *testing.T) {
	g, _ := UniformGrid(1, 3)
	d, center := LocalizedSources(g, 1, -1)
	if center != 1 {
		t.Fatalf("expected centre 1, got %d", center)
	}
	if d.Len() != 4 {
		t.Fatalf("expected 4 points, got %d", d.Len())
	}
	for i, v := range d.Exotic {
		if v != 0 {
			t.Errorf("exotic slab should fall off the grid, got %g at %d", v, i)
		}
	}
}

func TestDensitiesValidate(t *testing.T) {
	d := ZeroSources(5)
	d.EM = d.EM[:4]
	if err := d.Validate(5); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSamplesUseMeans(t *testing.T) {
	d := ZeroSources(4)
	d.DarkMatter[1] = 8
	d.DarkEnergy[2] = 4

	s := d.Samples()
	for i := range s {
		if s[i].MeanDarkMatter != 2 || s[i].MeanDarkEnergy != 1 {
			t.Errorf("i=%d: means %g/%g", i, s[i].MeanDarkMatter, s[i].MeanDarkEnergy)
		}
	}
	if s[1].DarkMatter != 8 || s[2].DarkEnergy != 4 {
		t.Error("local densities not carried")
	}
}

func TestGaussianPulse(t *testing.T) {
	g, _ := FibonacciGrid(10, 12)
	f := GaussianPulse(g, 1e-5, 0.1, 0.2)

	if len(f) != g.Len() {
		t.Fatalf("expected %d values, got %d", g.Len(), len(f))
	}
	if math.Abs(f[11]-(1e-5+0.1)) > 1e-15 {
		t.Errorf("expected peak at index 11, got %g", f[11])
	}
	if f[0] != 1e-5 || f[12] != 1e-5 {
		t.Errorf("expected baseline at the ends, got %g, %g", f[0], f[12])
	}

	flat := GaussianPulse(g, 2, 1, 0)
	for i, v := range flat {
		if v != 2 {
			t.Errorf("zero width should leave baseline, got %g at %d", v, i)
		}
	}
}
