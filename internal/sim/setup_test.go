package sim

import (
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/physics"
)

const (
	testLength   = 10.0
	testTerms    = 12
	testBaseline = 1e-5
	testStrength = 0.1
	testSigma    = 0.02 * testLength
)

// helper is the part of testing.TB the fixture needs; GinkgoT() satisfies it too.
type helper interface {
	Helper()
	Fatalf(format string, args ...any)
}

type fixture struct {
	grid    *physics.Grid
	sources *physics.Densities
	probe   int
	initial dynamo.Field
}

func newFixture(t helper, zeroSources bool) fixture {
	t.Helper()
	g, err := physics.FibonacciGrid(testLength, testTerms)
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	f := fixture{grid: g, initial: physics.GaussianPulse(g, testBaseline, testStrength, testSigma)}
	if zeroSources {
		f.sources = physics.ZeroSources(g.Len())
		f.probe = g.Len() / 2
	} else {
		f.sources, f.probe = physics.LocalizedSources(g, 1000, -100)
	}
	return f
}

func (f fixture) simulator(t helper, params physics.Params, opts ...Option) *Simulator {
	t.Helper()
	s, err := New(f.grid, params, f.sources, opts...)
	if err != nil {
		t.Fatalf("new simulator: %v", err)
	}
	return s
}
