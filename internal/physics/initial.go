package physics

import (
	"math"

	"github.com/san-kum/esqet/internal/dynamo"
)

// GaussianPulse returns baseline plus a Gaussian bump of the given strength
// and standard deviation, centred on the grid point nearest the domain midpoint.
func GaussianPulse(g *Grid, baseline, strength, sigma float64) dynamo.Field {
	f := dynamo.NewField(g.Len(), baseline)
	if sigma <= 0 {
		return f
	}
	xc := g.At(g.Nearest(g.At(0) + g.Length()/2))
	for i := range f {
		d := g.At(i) - xc
		f[i] += strength * math.Exp(-(d*d)/(2*sigma*sigma))
	}
	return f
}
