package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/scenario"
	"github.com/san-kum/polysim/internal/sim"
	"gopkg.in/yaml.v3"
)

var ErrInvalidSweep = errors.New("automation: invalid sweep")

// Batch is a scripted sequence of runs loaded from YAML.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun is a single entry of a batch. Scenario and Preset select the
// starting configuration; the remaining fields override it when set.
type BatchRun struct {
	Scenario string             `yaml:"scenario"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Dt       float64            `yaml:"dt"`
	Seed     int64              `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
}

// BatchResult pairs a run's resolved configuration with its result.
type BatchResult struct {
	Config *config.Config
	Preset string
	Result *sim.Result
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if len(batch.Runs) == 0 {
		return nil, fmt.Errorf("batch %s: no runs", path)
	}
	return &batch, nil
}

// Resolve turns a batch entry into a run configuration.
func (r BatchRun) Resolve() (*config.Config, error) {
	var cfg *config.Config
	if r.Preset != "" {
		cfg = config.GetPreset(r.Scenario, r.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", r.Scenario, r.Preset)
		}
	} else {
		cfg = config.DefaultConfig()
		if r.Scenario != "" {
			cfg.Scenario = r.Scenario
		}
	}
	if r.Duration > 0 {
		cfg.Duration = r.Duration
	}
	if r.Dt > 0 {
		cfg.Dt = r.Dt
	}
	if r.Seed != 0 {
		cfg.Seed = r.Seed
	}
	if cfg.Params == nil {
		cfg.Params = make(map[string]float64, len(r.Params))
	}
	for k, v := range r.Params {
		cfg.Params[k] = v
	}
	return cfg, nil
}

// RunBatch executes every run in order. Progress lines go to w when it is
// not nil. Results collected before a failure are returned with the error.
func RunBatch(ctx context.Context, batch *Batch, registry *scenario.Registry, w io.Writer) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(batch.Runs))

	for i, run := range batch.Runs {
		cfg, err := run.Resolve()
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}
		if w != nil {
			fmt.Fprintf(w, "Running %d/%d: %s\n", i+1, len(batch.Runs), cfg.Scenario)
		}

		result, err := runConfig(ctx, registry, cfg)
		if err != nil {
			return results, fmt.Errorf("run %d: %w", i+1, err)
		}
		results = append(results, BatchResult{Config: cfg, Preset: run.Preset, Result: result})
	}

	return results, nil
}

// Sweep varies one scenario parameter linearly between Min and Max.
type Sweep struct {
	Base     *config.Config
	Param    string
	Min, Max float64
	Steps    int
}

type SweepResult struct {
	Value   float64
	Metrics map[string]float64
	Steps   int
	Removed int
	Errors  int
}

func (s *Sweep) Values() ([]float64, error) {
	if s.Param == "" {
		return nil, fmt.Errorf("%w: no parameter", ErrInvalidSweep)
	}
	if s.Steps < 1 {
		return nil, fmt.Errorf("%w: steps %d", ErrInvalidSweep, s.Steps)
	}
	if s.Steps == 1 {
		return []float64{s.Min}, nil
	}
	step := (s.Max - s.Min) / float64(s.Steps-1)
	vals := make([]float64, s.Steps)
	for i := range vals {
		vals[i] = s.Min + float64(i)*step
	}
	return vals, nil
}

func RunSweep(ctx context.Context, sweep *Sweep, registry *scenario.Registry, w io.Writer) ([]SweepResult, error) {
	vals, err := sweep.Values()
	if err != nil {
		return nil, err
	}
	results := make([]SweepResult, 0, len(vals))

	for i, v := range vals {
		cfg := cloneConfig(sweep.Base)
		cfg.Params[sweep.Param] = v

		result, err := runConfig(ctx, registry, cfg)
		if err != nil {
			return results, err
		}
		results = append(results, SweepResult{
			Value:   v,
			Metrics: result.Metrics,
			Steps:   result.StepsTaken,
			Removed: result.Removed,
			Errors:  len(result.Errors),
		})

		if w != nil {
			fmt.Fprintf(w, "Sweep %d/%d: %s=%.4f\n", i+1, len(vals), sweep.Param, v)
		}
	}

	return results, nil
}

// GridSearch evaluates every combination of parameter values and keeps the
// one minimising a metric.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	registry *scenario.Registry,
	metricName string,
) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%w: %d names for %d ranges", ErrInvalidSweep, len(g.paramNames), len(g.ranges))
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, registry, metricName, &best, &bestParams)
	if err != nil {
		return nil, 0, err
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("%w: metric %q never reported", ErrInvalidSweep, metricName)
	}
	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	registry *scenario.Registry,
	metricName string,
	best *float64,
	bestParams *map[string]float64,
) error {
	if depth == len(g.paramNames) {
		cfg := cloneConfig(base)
		for k, v := range current {
			cfg.Params[k] = v
		}

		result, err := runConfig(ctx, registry, cfg)
		if err != nil {
			return err
		}

		val, ok := result.Metrics[metricName]
		if ok && val < *best {
			*best = val
			*bestParams = make(map[string]float64, len(current))
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, registry, metricName, best, bestParams); err != nil {
			return err
		}
	}
	return nil
}

func runConfig(ctx context.Context, registry *scenario.Registry, cfg *config.Config) (*sim.Result, error) {
	exp := scenario.NewExperiment(cfg)
	if err := exp.Setup(registry); err != nil {
		return nil, err
	}
	return exp.Run(ctx)
}

func cloneConfig(c *config.Config) *config.Config {
	cp := *c
	cp.Params = make(map[string]float64, len(c.Params))
	for k, v := range c.Params {
		cp.Params[k] = v
	}
	return &cp
}
