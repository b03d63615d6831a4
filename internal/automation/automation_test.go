package automation

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/scenario"
)

func shortBounce() *config.Config {
	cfg := config.GetPreset("bounce", "elastic")
	cfg.Duration = 0.5
	cfg.Seed = 7
	return cfg
}

func TestSweepValues(t *testing.T) {
	s := &Sweep{Param: "elasticity", Min: 0, Max: 1, Steps: 5}
	vals, err := s.Values()
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.25, 0.5, 0.75, 1}
	for i := range want {
		if vals[i] != want[i] {
			t.Errorf("value %d: expected %v, got %v", i, want[i], vals[i])
		}
	}

	one := &Sweep{Param: "elasticity", Min: 0.3, Max: 1, Steps: 1}
	if vals, _ := one.Values(); len(vals) != 1 || vals[0] != 0.3 {
		t.Errorf("single step sweep: got %v", vals)
	}
}

func TestSweepInvalid(t *testing.T) {
	for _, s := range []*Sweep{
		{Param: "", Steps: 3},
		{Param: "count", Steps: 0},
	} {
		if _, err := s.Values(); !errors.Is(err, ErrInvalidSweep) {
			t.Errorf("%+v: expected ErrInvalidSweep, got %v", s, err)
		}
	}
}

func TestRunSweep(t *testing.T) {
	base := shortBounce()
	var out bytes.Buffer
	results, err := RunSweep(context.Background(), &Sweep{
		Base: base, Param: "count", Min: 2, Max: 6, Steps: 3,
	}, scenario.NewRegistry(), &out)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Steps != 30 {
			t.Errorf("count=%v: expected 30 steps, got %d", r.Value, r.Steps)
		}
		if _, ok := r.Metrics["energy"]; !ok {
			t.Errorf("count=%v: missing energy metric", r.Value)
		}
	}
	if base.Params["count"] != 12 {
		t.Errorf("sweep modified base params: %v", base.Params)
	}
	if strings.Count(out.String(), "Sweep ") != 3 {
		t.Errorf("unexpected progress output %q", out.String())
	}
}

func TestGridSearchMatchesSweep(t *testing.T) {
	reg := scenario.NewRegistry()
	base := shortBounce()
	base.Params["gravity"] = 200

	values := []float64{0.2, 0.6, 1.0}
	sweep, err := RunSweep(context.Background(), &Sweep{
		Base: base, Param: "elasticity", Min: 0.2, Max: 1.0, Steps: 3,
	}, reg, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := sweep[0]
	for _, r := range sweep[1:] {
		if r.Metrics["energy"] < want.Metrics["energy"] {
			want = r
		}
	}

	params, best, err := NewGridSearch([]string{"elasticity"}, [][]float64{values}).
		Search(context.Background(), base, reg, "energy")
	if err != nil {
		t.Fatal(err)
	}
	if best != want.Metrics["energy"] {
		t.Errorf("expected best %v, got %v", want.Metrics["energy"], best)
	}
	if params["elasticity"] != want.Value {
		t.Errorf("expected elasticity %v, got %v", want.Value, params["elasticity"])
	}
}

func TestGridSearchUnknownMetric(t *testing.T) {
	_, _, err := NewGridSearch([]string{"count"}, [][]float64{{2}}).
		Search(context.Background(), shortBounce(), scenario.NewRegistry(), "nope")
	if !errors.Is(err, ErrInvalidSweep) {
		t.Errorf("expected ErrInvalidSweep, got %v", err)
	}
}

func TestGridSearchMismatchedRanges(t *testing.T) {
	_, _, err := NewGridSearch([]string{"count", "speed"}, [][]float64{{2}}).
		Search(context.Background(), shortBounce(), scenario.NewRegistry(), "energy")
	if !errors.Is(err, ErrInvalidSweep) {
		t.Errorf("expected ErrInvalidSweep, got %v", err)
	}
}

const batchYAML = `name: smoke
description: two short runs
runs:
  - scenario: bounce
    preset: lossy
    duration: 0.25
    seed: 3
    params:
      count: 4
  - scenario: springs
    duration: 0.5
    dt: 0.01
`

func TestLoadAndRunBatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "batch.yaml")
	if err := os.WriteFile(path, []byte(batchYAML), 0644); err != nil {
		t.Fatal(err)
	}

	batch, err := LoadBatch(path)
	if err != nil {
		t.Fatal(err)
	}
	if batch.Name != "smoke" || len(batch.Runs) != 2 {
		t.Fatalf("unexpected batch %+v", batch)
	}

	results, err := RunBatch(context.Background(), batch, scenario.NewRegistry(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	first := results[0]
	if first.Preset != "lossy" || first.Config.Params["count"] != 4 || first.Config.Seed != 3 {
		t.Errorf("first run not resolved: %+v", first.Config)
	}
	if first.Config.Params["elasticity"] != 0.6 {
		t.Errorf("preset params lost: %v", first.Config.Params)
	}
	if first.Result.StepsTaken != 15 {
		t.Errorf("expected 15 steps, got %d", first.Result.StepsTaken)
	}

	second := results[1]
	if second.Config.Scenario != "springs" || second.Result.StepsTaken != 50 {
		t.Errorf("second run: scenario %s steps %d", second.Config.Scenario, second.Result.StepsTaken)
	}
}

func TestRunBatchUnknownPreset(t *testing.T) {
	batch := &Batch{Runs: []BatchRun{{Scenario: "bounce", Preset: "missing"}}}
	results, err := RunBatch(context.Background(), batch, scenario.NewRegistry(), nil)
	if err == nil || len(results) != 0 {
		t.Errorf("expected error and no results, got %v %d", err, len(results))
	}
}

func TestLoadBatchEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, []byte("name: empty\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadBatch(path); err == nil {
		t.Error("expected error for batch without runs")
	}
}
