package storage

import (
	"bytes"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/physics"
)

func testHistory() dynamo.History {
	return dynamo.History{
		{Step: 0, Time: 2.6e-11, Values: dynamo.Field{1e-5, 0.10001, 1e-5}},
		{Step: 250, Time: 6.6e-9, Values: dynamo.Field{1e-5, -0.0123456789012345, 1e-5}},
	}
}

func testMeta(name string) RunMetadata {
	return RunMetadata{
		Name:     name,
		Status:   StatusComplete,
		Steps:    251,
		Stride:   250,
		Baseline: 1e-5,
		Dt:       8.87e-12,
		Grid:     []float64{0, 1, 3},
		Probe:    1,
		Params:   physics.DefaultParams(),
		Metrics:  map[string]float64{"stability": 1},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testMeta("test"), testHistory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(runID, "test_") {
		t.Errorf("unexpected run id %q", runID)
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Name != "test" || meta.Snapshots != 2 {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Params != physics.DefaultParams() {
		t.Error("params did not round trip")
	}
	if meta.Metrics["stability"] != 1 {
		t.Errorf("expected stability 1, got %f", meta.Metrics["stability"])
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		t.Fatalf("load history failed: %v", err)
	}
	if diff := cmp.Diff(testHistory(), history); diff != "" {
		t.Errorf("history mismatch (-saved +loaded):\n%s", diff)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	for _, name := range []string{"a", "b"} {
		if _, err := st.Save(testMeta(name), testHistory()); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	latest, err := st.Latest()
	if err != nil {
		t.Fatalf("latest failed: %v", err)
	}
	if latest.ID != runs[1].ID {
		t.Errorf("expected latest %s, got %s", runs[1].ID, latest.ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "missing"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
	if _, err := st.Latest(); err == nil {
		t.Error("expected error for empty store")
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testMeta("test"), dynamo.History{})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, historyFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}

	history, err := st.LoadHistory(runID)
	if err != nil || len(history) != 0 {
		t.Errorf("expected empty history, got %v, %v", history, err)
	}
}

func TestStoreNonFiniteValues(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	meta := testMeta("overflow")
	meta.Metrics["gradient_energy"] = math.Inf(1)
	meta.Metrics["boundary_drift"] = math.NaN()
	meta.ProbeSource = math.Inf(-1)

	runID, err := st.Save(meta, testHistory())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !math.IsInf(meta.Metrics["gradient_energy"], 1) {
		t.Error("save modified the caller's metrics")
	}

	raw, err := os.ReadFile(filepath.Join(tmpDir, runID, metadataFile))
	if err != nil {
		t.Fatalf("read metadata: %v", err)
	}
	if !strings.Contains(string(raw), `"gradient_energy": "+Inf"`) {
		t.Errorf("expected +Inf under non_finite, got:\n%s", raw)
	}

	got, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !math.IsInf(got.Metrics["gradient_energy"], 1) {
		t.Errorf("gradient_energy: expected +Inf, got %g", got.Metrics["gradient_energy"])
	}
	if !math.IsNaN(got.Metrics["boundary_drift"]) {
		t.Errorf("boundary_drift: expected NaN, got %g", got.Metrics["boundary_drift"])
	}
	if !math.IsInf(got.ProbeSource, -1) {
		t.Errorf("probe_source: expected -Inf, got %g", got.ProbeSource)
	}
	if got.Metrics["stability"] != 1 || got.NonFinite != nil {
		t.Errorf("unexpected metadata %+v", got)
	}

	var buf bytes.Buffer
	if err := ExportJSON(&buf, got, testHistory()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
}

func TestExportJSON(t *testing.T) {
	meta := testMeta("test")
	var buf bytes.Buffer
	if err := ExportJSON(&buf, &meta, testHistory()); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Name != "test" || len(got.History) != 2 {
		t.Errorf("unexpected export %+v", got)
	}
}

func TestExportCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportCSV(&buf, testHistory()); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "step,time,s0,s1,s2" {
		t.Errorf("unexpected header %q", lines[0])
	}
}
