package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/physics"
)

const (
	metadataFile = "metadata.json"
	historyFile  = "history.csv"
)

// Run outcomes recorded in RunMetadata.Status.
const (
	StatusComplete = "complete"
	StatusUnstable = "unstable"
	StatusCanceled = "canceled"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Timestamp      time.Time          `json:"timestamp"`
	Status         string             `json:"status"`
	AbortStep      int                `json:"abort_step,omitempty"`
	Steps          int                `json:"steps"`
	Stride         int                `json:"stride"`
	StepsTaken     int                `json:"steps_taken"`
	Snapshots      int                `json:"snapshots"`
	Baseline       float64            `json:"baseline"`
	Dt             float64            `json:"dt"`
	Grid           []float64          `json:"grid"`
	Probe          int                `json:"probe"`
	ProbeCoherence float64            `json:"probe_coherence"`
	ProbeSource    float64            `json:"probe_source"`
	Params         physics.Params     `json:"params"`
	Metrics        map[string]float64 `json:"metrics"`
	// NonFinite holds the metric and probe values JSON cannot carry
	// (NaN, ±Inf), formatted with strconv.
	NonFinite map[string]string `json:"non_finite,omitempty"`
}

const (
	keyProbeCoherence = "probe_coherence"
	keyProbeSource    = "probe_source"
)

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// encodable moves non-finite metric and probe values into NonFinite.
func (m RunMetadata) encodable() RunMetadata {
	out := m
	out.Metrics = make(map[string]float64, len(m.Metrics))
	out.NonFinite = nil
	stash := func(key string, v float64) {
		if out.NonFinite == nil {
			out.NonFinite = make(map[string]string)
		}
		out.NonFinite[key] = strconv.FormatFloat(v, 'g', -1, 64)
	}

	for name, v := range m.Metrics {
		if finite(v) {
			out.Metrics[name] = v
		} else {
			stash(name, v)
		}
	}
	if !finite(m.ProbeCoherence) {
		stash(keyProbeCoherence, m.ProbeCoherence)
		out.ProbeCoherence = 0
	}
	if !finite(m.ProbeSource) {
		stash(keyProbeSource, m.ProbeSource)
		out.ProbeSource = 0
	}
	return out
}

// restore is the inverse of encodable.
func (m *RunMetadata) restore() error {
	for key, text := range m.NonFinite {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("non_finite %s: %w", key, err)
		}
		switch key {
		case keyProbeCoherence:
			m.ProbeCoherence = v
		case keyProbeSource:
			m.ProbeSource = v
		default:
			if m.Metrics == nil {
				m.Metrics = make(map[string]float64)
			}
			m.Metrics[key] = v
		}
	}
	m.NonFinite = nil
	return nil
}

// Save writes metadata.json and history.csv into a new run directory and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, history dynamo.History) (string, error) {
	now := time.Now()
	if meta.ID == "" {
		meta.ID = fmt.Sprintf("%s_%d", meta.Name, now.UnixNano())
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = now
	}
	meta.Snapshots = len(history)

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta.encodable()); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, historyFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeHistory(w, history); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return meta.ID, nil
}

func writeHistory(w *csv.Writer, history dynamo.History) error {
	if len(history) == 0 {
		return nil
	}

	header := []string{"step", "time"}
	for i := range history[0].Values {
		header = append(header, fmt.Sprintf("s%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, snap := range history {
		row := []string{
			strconv.Itoa(snap.Step),
			strconv.FormatFloat(snap.Time, 'g', -1, 64),
		}
		for _, v := range snap.Values {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// List returns the metadata of every stored run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	if err := meta.restore(); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Latest returns the most recent run.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no runs in %s", s.baseDir)
	}
	return &runs[len(runs)-1], nil
}

func (s *Store) LoadHistory(runID string) (dynamo.History, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, historyFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return dynamo.History{}, nil
	}

	history := make(dynamo.History, 0, len(records)-1)
	for i, record := range records[1:] {
		if len(record) < 2 {
			continue
		}

		step, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: step: %w", i+1, err)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: time: %w", i+1, err)
		}

		values := make(dynamo.Field, 0, len(record)-2)
		for _, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i+1, err)
			}
			values = append(values, v)
		}
		history = append(history, dynamo.Snapshot{Step: step, Time: t, Values: values})
	}

	return history, nil
}
