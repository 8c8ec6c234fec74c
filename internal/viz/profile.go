package viz

import (
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/esqet/internal/dynamo"
)

// Profile plots one snapshot against position, resampled onto width columns.
func Profile(x []float64, snap dynamo.Snapshot, width, height int, caption string) string {
	data := Resample(x, snap.Values, width)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Trend plots the min, mean and max of every snapshot over time.
func Trend(history dynamo.History, width, height int) string {
	if len(history) == 0 {
		return ""
	}
	lo := make([]float64, len(history))
	mean := make([]float64, len(history))
	hi := make([]float64, len(history))
	for i, s := range history {
		lo[i], mean[i], hi[i] = s.Values.Min(), s.Values.Mean(), s.Values.Max()
	}
	return asciigraph.PlotMany([][]float64{lo, mean, hi},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Blue, asciigraph.Default, asciigraph.Red),
		asciigraph.Caption("min / mean / max per snapshot"),
	)
}
