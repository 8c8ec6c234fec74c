package metrics

import "github.com/san-kum/esqet/internal/dynamo"

// Stats summarizes one snapshot for the console report.
type Stats struct {
	Step int
	Min  float64
	Max  float64
	Mean float64
}

func Summarize(s dynamo.Snapshot) Stats {
	return Stats{
		Step: s.Step,
		Min:  s.Values.Min(),
		Max:  s.Values.Max(),
		Mean: s.Values.Mean(),
	}
}

// Defaults returns the metrics attached to every run.
func Defaults(x []float64, baseline, threshold float64) []dynamo.Metric {
	return []dynamo.Metric{
		NewGradientEnergy(x),
		NewEnergyGrowth(x),
		NewStability(baseline, threshold),
		NewPeakAmplitude(baseline),
		NewBoundaryDrift(baseline),
	}
}
