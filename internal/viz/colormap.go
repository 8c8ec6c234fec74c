package viz

import (
	"fmt"
	"math"
	"sort"
)

type rgb struct{ r, g, b float64 }

// viridis anchors, evenly spaced over [0, 1]
var viridis = []rgb{
	{68, 1, 84},
	{72, 40, 120},
	{62, 74, 137},
	{49, 104, 142},
	{38, 130, 142},
	{31, 158, 137},
	{53, 183, 121},
	{109, 205, 89},
	{180, 222, 44},
	{253, 231, 37},
}

// Viridis maps t in [0, 1] to an RGB colour. Values outside are clamped.
func Viridis(t float64) (r, g, b uint8) {
	if math.IsNaN(t) {
		t = 0
	}
	t = math.Max(0, math.Min(1, t))
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	if i >= len(viridis)-1 {
		c := viridis[len(viridis)-1]
		return uint8(c.r), uint8(c.g), uint8(c.b)
	}
	f := pos - float64(i)
	a, z := viridis[i], viridis[i+1]
	return uint8(a.r + (z.r-a.r)*f + 0.5), uint8(a.g + (z.g-a.g)*f + 0.5), uint8(a.b + (z.b-a.b)*f + 0.5)
}

func ViridisHex(t float64) string {
	r, g, b := Viridis(t)
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// Normalize maps v from [lo, hi] to [0, 1]. A flat range maps to 0.5.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// Resample linearly interpolates values defined on the increasing grid x at
// n evenly spaced cell centres spanning [x[0], x[len-1]].
func Resample(x, values []float64, n int) []float64 {
	out := make([]float64, n)
	if len(x) == 0 || len(values) != len(x) || n <= 0 {
		return out
	}
	if len(x) == 1 {
		for i := range out {
			out[i] = values[0]
		}
		return out
	}

	lo, hi := x[0], x[len(x)-1]
	for i := range out {
		p := lo + (float64(i)+0.5)/float64(n)*(hi-lo)
		j := sort.SearchFloat64s(x, p)
		switch {
		case j <= 0:
			out[i] = values[0]
		case j >= len(x):
			out[i] = values[len(values)-1]
		default:
			f := (p - x[j-1]) / (x[j] - x[j-1])
			out[i] = values[j-1] + (values[j]-values[j-1])*f
		}
	}
	return out
}
