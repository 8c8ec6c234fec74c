package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/viz"
)

const (
	marginLeft   = 70.0
	marginRight  = 90.0
	marginTop    = 40.0
	marginBottom = 50.0
)

// HeatmapSVG renders the history as a position × time heat map. Each cell
// spans one grid interval horizontally, so the non-uniform spacing stays
// visible, and one snapshot vertically with time increasing upwards.
func HeatmapSVG(x []float64, history dynamo.History, width, height int, title string) string {
	if len(history) == 0 || len(x) < 2 {
		return ""
	}

	plotW := float64(width) - marginLeft - marginRight
	plotH := float64(height) - marginTop - marginBottom
	xMin, xMax := x[0], x[len(x)-1]
	lo, hi := history.Bounds()
	rowH := plotH / float64(len(history))

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif" font-size="12">
<rect width="100%%" height="100%%" fill="#ffffff"/>
<text x="%.1f" y="%.1f" text-anchor="middle" font-size="15">%s</text>
<g shape-rendering="crispEdges">
`, width, height, width, height, marginLeft+plotW/2, marginTop/2+5, escape(title)))

	for r, snap := range history {
		y := marginTop + plotH - float64(r+1)*rowH
		for j := 0; j+1 < len(x) && j+1 < len(snap.Values); j++ {
			x0 := marginLeft + (x[j]-xMin)/(xMax-xMin)*plotW
			x1 := marginLeft + (x[j+1]-xMin)/(xMax-xMin)*plotW
			v := 0.5 * (snap.Values[j] + snap.Values[j+1])
			sb.WriteString(fmt.Sprintf(`<rect class="cell" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>
`, x0, y, x1-x0, rowH, viz.ViridisHex(viz.Normalize(v, lo, hi))))
		}
	}
	sb.WriteString("</g>\n")

	tMax := history[len(history)-1].Time
	sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#000000"/>
<text x="%.1f" y="%.1f" text-anchor="middle">Fibonacci-scaled position</text>
<text x="%.1f" y="%.1f" text-anchor="start">%.3g</text>
<text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>
<text x="%.1f" y="%.1f" text-anchor="middle" transform="rotate(-90 %.1f %.1f)">time (s)</text>
<text x="%.1f" y="%.1f" text-anchor="end">%.3g</text>
<text x="%.1f" y="%.1f" text-anchor="end">0</text>
`,
		marginLeft, marginTop, plotW, plotH,
		marginLeft+plotW/2, float64(height)-12,
		marginLeft, marginTop+plotH+18, xMin,
		marginLeft+plotW, marginTop+plotH+18, xMax,
		20.0, marginTop+plotH/2, 20.0, marginTop+plotH/2,
		marginLeft-6, marginTop+10, tMax,
		marginLeft-6, marginTop+plotH))

	sb.WriteString(colorBar(marginLeft+plotW+20, marginTop, plotH, lo, hi))
	sb.WriteString("</svg>\n")
	return sb.String()
}

func colorBar(x, y, h, lo, hi float64) string {
	const steps = 32
	var sb strings.Builder
	sb.WriteString(`<g shape-rendering="crispEdges">` + "\n")
	for i := 0; i < steps; i++ {
		t := (float64(i) + 0.5) / steps
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.2f" width="16" height="%.2f" fill="%s"/>
`, x, y+h-float64(i+1)*h/steps, h/steps+0.5, viz.ViridisHex(t)))
	}
	sb.WriteString("</g>\n")
	sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f">%.2e</text>
<text x="%.1f" y="%.1f">%.2e</text>
`, x+20, y+10, hi, x+20, y+h, lo))
	return sb.String()
}

// ProfileSVG draws one snapshot as a polyline over the grid positions.
func ProfileSVG(x []float64, values []float64, width, height int, strokeColor string) string {
	if len(x) < 2 || len(values) != len(x) {
		return ""
	}

	minY, maxY := values[0], values[0]
	for _, v := range values {
		if v < minY {
			minY = v
		}
		if v > maxY {
			maxY = v
		}
	}

	minX, maxX := x[0], x[len(x)-1]
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeY = maxY - minY

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i := range x {
		px := (x[i] - minX) / rangeX * float64(width)
		py := float64(height) - (values[i]-minY)/rangeY*float64(height)

		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", px, py))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", px, py))
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}

// WriteProfile renders one snapshot's profile to path.
func WriteProfile(path string, x []float64, snap dynamo.Snapshot, strokeColor string) error {
	svg := ProfileSVG(x, snap.Values, 1200, 400, strokeColor)
	if svg == "" {
		return fmt.Errorf("nothing to render: %d values on %d points: %w", len(snap.Values), len(x), dynamo.ErrDimensionMismatch)
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

// WriteHeatmap renders the heat map to path.
func WriteHeatmap(path string, x []float64, history dynamo.History, title string) error {
	svg := HeatmapSVG(x, history, 1200, 800, title)
	if svg == "" {
		return fmt.Errorf("nothing to render: %d snapshots", len(history))
	}
	return os.WriteFile(path, []byte(svg), 0644)
}

func escape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
