package metrics

import (
	"math"

	"github.com/san-kum/esqet/internal/dynamo"
)

// PeakAmplitude is the largest |s - baseline| over every snapshot.
type PeakAmplitude struct {
	baseline float64
	peak     float64
}

func NewPeakAmplitude(baseline float64) *PeakAmplitude {
	return &PeakAmplitude{baseline: baseline}
}

func (p *PeakAmplitude) Name() string { return "peak_amplitude" }

func (p *PeakAmplitude) Observe(s dynamo.Snapshot) {
	for _, v := range s.Values {
		p.peak = math.Max(p.peak, math.Abs(v-p.baseline))
	}
}

func (p *PeakAmplitude) Value() float64 { return p.peak }
func (p *PeakAmplitude) Reset()         { p.peak = 0 }

// BoundaryDrift is the largest distance of either endpoint from the
// baseline. A clamped run keeps it at zero.
type BoundaryDrift struct {
	baseline float64
	drift    float64
}

func NewBoundaryDrift(baseline float64) *BoundaryDrift {
	return &BoundaryDrift{baseline: baseline}
}

func (b *BoundaryDrift) Name() string { return "boundary_drift" }

func (b *BoundaryDrift) Observe(s dynamo.Snapshot) {
	n := len(s.Values)
	if n == 0 {
		return
	}
	b.drift = math.Max(b.drift, math.Abs(s.Values[0]-b.baseline))
	b.drift = math.Max(b.drift, math.Abs(s.Values[n-1]-b.baseline))
}

func (b *BoundaryDrift) Value() float64 { return b.drift }
func (b *BoundaryDrift) Reset()         { b.drift = 0 }
