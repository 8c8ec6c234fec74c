package integrators

// SecondDifference estimates d²s/dx² at interior point i of a possibly
// non-uniform grid x with the three-point stencil
//
//	2 * [(s[i+1]-s[i])/h2 - (s[i]-s[i-1])/h1] / (h1+h2)
//
// where h1 = x[i]-x[i-1] and h2 = x[i+1]-x[i]. With h1 == h2 == h it is
// the usual (s[i+1] - 2s[i] + s[i-1]) / h².
func SecondDifference(x, s []float64, i int) float64 {
	h1 := x[i] - x[i-1]
	h2 := x[i+1] - x[i]
	return 2 * ((s[i+1]-s[i])/h2 - (s[i]-s[i-1])/h1) / (h1 + h2)
}

// Laplacian fills out[1:n-1] with SecondDifference and leaves the endpoints untouched.
func Laplacian(x, s, out []float64) {
	for i := 1; i < len(s)-1; i++ {
		out[i] = SecondDifference(x, s, i)
	}
}
