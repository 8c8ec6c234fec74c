package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/esqet/internal/dynamo"
)

// Heatmap renders the history as coloured cells, one row per snapshot with
// the latest at the top and position running left to right.
func Heatmap(x []float64, history dynamo.History, width int) string {
	if len(history) == 0 || len(x) < 2 || width < 1 {
		return Subtle.Render("(no snapshots)")
	}

	lo, hi := history.Bounds()
	var sb strings.Builder

	for r := len(history) - 1; r >= 0; r-- {
		snap := history[r]
		sb.WriteString(Subtle.Render(fmt.Sprintf("%6d ", snap.Step)))
		for _, v := range Resample(x, snap.Values, width) {
			cell := lipgloss.NewStyle().Background(lipgloss.Color(ViridisHex(Normalize(v, lo, hi))))
			sb.WriteString(cell.Render(" "))
		}
		sb.WriteString("\n")
	}

	sb.WriteString(Subtle.Render(fmt.Sprintf("%6s %-*.3g%*.3g", "x", width/2, x[0], width-width/2, x[len(x)-1])))
	sb.WriteString("\n")
	sb.WriteString(ColorBar(lo, hi, width))
	return sb.String()
}

// ColorBar renders the colour scale between lo and hi.
func ColorBar(lo, hi float64, width int) string {
	var sb strings.Builder
	sb.WriteString(Subtle.Render(fmt.Sprintf("%6s ", "S")))
	for i := 0; i < width; i++ {
		t := (float64(i) + 0.5) / float64(width)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(ViridisHex(t))).Render("█"))
	}
	sb.WriteString(Subtle.Render(fmt.Sprintf("  [%.3e, %.3e]", lo, hi)))
	return sb.String()
}
