package metrics

import (
	"math"

	"github.com/san-kum/esqet/internal/dynamo"
)

// Stability is the fraction of snapshots whose largest deviation from the
// baseline stays within threshold.
type Stability struct {
	name       string
	baseline   float64
	threshold  float64
	violations int
	samples    int
}

func NewStability(baseline, threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		baseline:  baseline,
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap dynamo.Snapshot) {
	s.samples++
	for _, v := range snap.Values {
		if math.Abs(v-s.baseline) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
