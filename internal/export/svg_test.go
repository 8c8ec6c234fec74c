package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/esqet/internal/dynamo"
)

func testHistory() dynamo.History {
	return dynamo.History{
		{Step: 0, Time: 1, Values: dynamo.Field{0, 1, 0, 0}},
		{Step: 5, Time: 6, Values: dynamo.Field{0, 0.5, 0.5, 0}},
		{Step: 9, Time: 10, Values: dynamo.Field{0, 0, 1, 0}},
	}
}

func TestHeatmapSVGCells(t *testing.T) {
	x := []float64{0, 1, 3, 6}
	svg := HeatmapSVG(x, testHistory(), 600, 400, "a < b")

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatal("not a complete svg document")
	}
	if got := strings.Count(svg, `class="cell"`); got != 3*3 {
		t.Errorf("expected 9 cells, got %d", got)
	}
	if !strings.Contains(svg, "a &lt; b") {
		t.Error("title not escaped")
	}
}

func TestHeatmapSVGEmpty(t *testing.T) {
	if HeatmapSVG([]float64{0, 1}, nil, 100, 100, "") != "" {
		t.Error("expected empty output for empty history")
	}
}

func TestProfileSVG(t *testing.T) {
	svg := ProfileSVG([]float64{0, 1, 3}, []float64{1, 2, 1}, 300, 100, "#00ff00")
	if strings.Count(svg, " L") != 2 {
		t.Errorf("expected 2 line segments:\n%s", svg)
	}
	if ProfileSVG([]float64{0, 1}, []float64{1}, 10, 10, "#fff") != "" {
		t.Error("expected empty output for mismatched input")
	}
}

func TestWriteHeatmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if err := WriteHeatmap(path, []float64{0, 1, 3, 6}, testHistory(), "run"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty file, got %v", err)
	}
	if err := WriteHeatmap(path, []float64{0, 1}, nil, "run"); err == nil {
		t.Error("expected error for empty history")
	}
}

func TestWriteProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.svg")
	x := []float64{0, 1, 3, 6}
	if err := WriteProfile(path, x, testHistory()[1], "#00ffff"); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !strings.Contains(string(data), `stroke="#00ffff"`) || strings.Count(string(data), " L") != 3 {
		t.Errorf("unexpected profile:\n%s", data)
	}

	short := dynamo.Snapshot{Values: dynamo.Field{1, 2}}
	if err := WriteProfile(path, x, short, "#fff"); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
