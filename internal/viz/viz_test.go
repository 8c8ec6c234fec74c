package viz

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/metrics"
)

func TestViridisEnds(t *testing.T) {
	if got := ViridisHex(0); got != "#440154" {
		t.Errorf("expected #440154, got %s", got)
	}
	if got := ViridisHex(1); got != "#fde725" {
		t.Errorf("expected #fde725, got %s", got)
	}
	if ViridisHex(-3) != ViridisHex(0) || ViridisHex(7) != ViridisHex(1) {
		t.Error("expected clamping outside [0, 1]")
	}
	if ViridisHex(math.NaN()) != ViridisHex(0) {
		t.Error("expected NaN to map to the low end")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(3, 1, 5); got != 0.5 {
		t.Errorf("expected 0.5, got %g", got)
	}
	if got := Normalize(3, 2, 2); got != 0.5 {
		t.Errorf("expected 0.5 for flat range, got %g", got)
	}
}

func TestResample(t *testing.T) {
	x := []float64{0, 1, 4}
	v := []float64{0, 1, 4}

	got := Resample(x, v, 4)
	want := []float64{0.5, 1.5, 2.5, 3.5}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("cell %d: got %g, want %g", i, got[i], want[i])
		}
	}

	if out := Resample(x, v[:2], 3); out[0] != 0 || len(out) != 3 {
		t.Errorf("mismatched input should give zeros, got %v", out)
	}
}

func TestHeatmapRows(t *testing.T) {
	x := []float64{0, 1, 2}
	h := dynamo.History{
		{Step: 0, Values: dynamo.Field{0, 1, 0}},
		{Step: 10, Values: dynamo.Field{0, 0.5, 0}},
	}

	out := Heatmap(x, h, 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 2 rows, axis and colour bar, got %d lines", len(lines))
	}
	if !strings.Contains(lines[0], "10") || !strings.Contains(lines[1], "0") {
		t.Errorf("expected latest snapshot first:\n%s", out)
	}

	if !strings.Contains(Heatmap(x, nil, 8), "no snapshots") {
		t.Error("expected placeholder for empty history")
	}
}

func TestReports(t *testing.T) {
	line := SnapshotLine(metrics.Stats{Step: 250, Min: 1e-5, Max: 0.1, Mean: 0.01}, 5000)
	for _, want := range []string{"250/5000", "1.0000e-05", "1.0000e-01", "1.0000e-02"} {
		if !strings.Contains(line, want) {
			t.Errorf("snapshot line missing %q: %s", want, line)
		}
	}

	probe := ProbeReport(7, 1.436, 1.05, 2.5e-3)
	if !strings.Contains(probe, "1.0500") || !strings.Contains(probe, "2.5000e-03") {
		t.Errorf("unexpected probe report: %s", probe)
	}
}

func TestProfileAndTrend(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	snap := dynamo.Snapshot{Values: dynamo.Field{0, 1, 2, 1}}
	if out := Profile(x, snap, 20, 5, "profile"); !strings.Contains(out, "profile") {
		t.Errorf("expected caption in plot:\n%s", out)
	}

	h := dynamo.History{snap, {Step: 1, Values: dynamo.Field{0, 2, 1, 0}}}
	if out := Trend(h, 20, 5); !strings.Contains(out, "min / mean / max") {
		t.Errorf("expected caption in trend:\n%s", out)
	}
	if Trend(nil, 20, 5) != "" {
		t.Error("expected empty trend for empty history")
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(ThemeCyberpunk.Name)

	SetTheme("ocean")
	if CurrentTheme.Name != "ocean" {
		t.Errorf("expected ocean, got %s", CurrentTheme.Name)
	}
	if got := Title.GetForeground(); got != ThemeOcean.Primary {
		t.Errorf("title colour not switched: %v", got)
	}

	SetTheme("no-such-theme")
	if CurrentTheme.Name != ThemeCyberpunk.Name {
		t.Errorf("expected fallback to cyberpunk, got %s", CurrentTheme.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}
