package integrators

// Leapfrog is the explicit three-level scheme for u_tt = c² r:
//
//	next = 2*cur - prev + dt² c² r
type Leapfrog struct {
	C float64
}

func NewLeapfrog(c float64) *Leapfrog {
	return &Leapfrog{C: c}
}

func (l *Leapfrog) Next(prev, cur, rhs, dt float64) float64 {
	return 2*cur - prev + dt*dt*(l.C*l.C*rhs)
}

// StableStep is the fixed time step 0.1 * hmin / c. It is a manual bound,
// not an adaptive CFL controller.
func (l *Leapfrog) StableStep(hmin float64) float64 {
	return 0.1 * hmin / l.C
}
