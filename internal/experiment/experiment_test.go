package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/esqet/internal/config"
	"github.com/san-kum/esqet/internal/dynamo"
	"github.com/san-kum/esqet/internal/sim"
	"github.com/san-kum/esqet/internal/storage"
)

func quickConfig() *config.Config {
	cfg := config.GetPreset("quick")
	cfg.Run.Steps = 40
	cfg.Run.Stride = 10
	cfg.Params.Scaling = 1e-20
	return cfg
}

func TestExperimentRun(t *testing.T) {
	cfg := quickConfig()
	var seen int
	exp, err := New(cfg, sim.WithObservers(sim.ObserverFunc(func(dynamo.Snapshot) { seen++ })))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	want := cfg.RunConfig().ExpectedSnapshots()
	if len(out.Result.History) != want {
		t.Errorf("expected %d snapshots, got %d", want, len(out.Result.History))
	}
	if seen != want {
		t.Errorf("observer saw %d snapshots, want %d", seen, want)
	}
	if out.Probe != 7 || exp.Probe() != out.Probe {
		t.Errorf("expected probe index 7, got %d (experiment %d)", out.Probe, exp.Probe())
	}
	if out.Status() != storage.StatusComplete {
		t.Errorf("expected complete status, got %q", out.Status())
	}
	for _, name := range []string{"gradient_energy", "energy_growth", "stability", "peak_amplitude", "boundary_drift"} {
		if _, ok := out.Result.Metrics[name]; !ok {
			t.Errorf("missing metric %q", name)
		}
	}

	coh, _ := out.ProbeValues()
	if coh <= 0 {
		t.Errorf("expected positive coherence at probe, got %g", coh)
	}
}

func TestExperimentUnstable(t *testing.T) {
	cfg := quickConfig()
	cfg.Params.Scaling = 1e300

	exp, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := exp.Run(context.Background())
	if !errors.Is(err, dynamo.ErrUnstable) {
		t.Fatalf("expected ErrUnstable, got %v", err)
	}
	if out == nil {
		t.Fatal("expected partial outcome")
	}
	if out.Status() != storage.StatusUnstable {
		t.Errorf("expected unstable status, got %q", out.Status())
	}

	meta := out.Metadata()
	if meta.Snapshots != len(out.Result.History) {
		t.Errorf("metadata snapshots %d, history %d", meta.Snapshots, len(out.Result.History))
	}
}

func TestExperimentInvalidConfig(t *testing.T) {
	cfg := quickConfig()
	cfg.Run.Stride = 0
	if _, err := New(cfg); !errors.Is(err, dynamo.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestExperimentCanceled(t *testing.T) {
	exp, err := New(quickConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := exp.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if out.Status() != storage.StatusCanceled {
		t.Errorf("expected canceled status, got %q", out.Status())
	}
}
