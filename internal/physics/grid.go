package physics

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/esqet/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Grid is an immutable, strictly increasing set of spatial coordinates.
type Grid struct {
	x []float64
}

func NewGrid(points []float64) (*Grid, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points, got %d: %w", len(points), dynamo.ErrInvalidGrid)
	}
	for i := 1; i < len(points); i++ {
		if !(points[i] > points[i-1]) {
			return nil, fmt.Errorf("x[%d]=%g does not exceed x[%d]=%g: %w", i, points[i], i-1, points[i-1], dynamo.ErrInvalidGrid)
		}
	}
	x := make([]float64, len(points))
	copy(x, points)
	return &Grid{x: x}, nil
}

// Fibonacci returns the first n terms of 1, 1, 2, 3, 5, ...
func Fibonacci(n int) []float64 {
	if n <= 0 {
		return nil
	}
	fib := make([]float64, n)
	for i := range fib {
		if i < 2 {
			fib[i] = 1
			continue
		}
		fib[i] = fib[i-1] + fib[i-2]
	}
	return fib
}

// FibonacciGrid partitions [0, length] into terms intervals whose widths
// are proportional to successive Fibonacci numbers.
func FibonacciGrid(length float64, terms int) (*Grid, error) {
	if length <= 0 {
		return nil, fmt.Errorf("domain length must be positive, got %g: %w", length, dynamo.ErrInvalidGrid)
	}
	fib := Fibonacci(terms)
	if len(fib) < 2 {
		return nil, fmt.Errorf("need at least 2 Fibonacci terms, got %d: %w", terms, dynamo.ErrInvalidGrid)
	}
	floats.Scale(length/floats.Sum(fib), fib)
	x := make([]float64, len(fib)+1)
	floats.CumSum(x[1:], fib)
	return NewGrid(x)
}

// UniformGrid spaces n+1 points evenly over [0, length].
func UniformGrid(length float64, n int) (*Grid, error) {
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 intervals, got %d: %w", n, dynamo.ErrInvalidGrid)
	}
	x := make([]float64, n+1)
	floats.Span(x, 0, length)
	return NewGrid(x)
}

func (g *Grid) Len() int { return len(g.x) }

// Points returns a copy of the coordinates.
func (g *Grid) Points() []float64 {
	x := make([]float64, len(g.x))
	copy(x, g.x)
	return x
}

func (g *Grid) At(i int) float64 { return g.x[i] }

func (g *Grid) Length() float64 { return g.x[len(g.x)-1] - g.x[0] }

// Spacing returns x[i+1] - x[i].
func (g *Grid) Spacing(i int) float64 { return g.x[i+1] - g.x[i] }

func (g *Grid) MinSpacing() float64 {
	h := math.Inf(1)
	for i := 0; i < len(g.x)-1; i++ {
		h = math.Min(h, g.Spacing(i))
	}
	return h
}

// Nearest returns the index of the point closest to x; ties go to the lower index.
func (g *Grid) Nearest(x float64) int {
	j := sort.SearchFloat64s(g.x, x)
	switch {
	case j == 0:
		return 0
	case j == len(g.x):
		return len(g.x) - 1
	case x-g.x[j-1] <= g.x[j]-x:
		return j - 1
	default:
		return j
	}
}
