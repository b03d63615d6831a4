package scenario

import (
	"context"
	"errors"

	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/sim"
)

var ErrNotSetup = errors.New("scenario: experiment not set up")

// Experiment couples a run configuration with the world and simulator
// built from it.
type Experiment struct {
	cfg       *config.Config
	world     *World
	simulator *sim.Simulator
}

func NewExperiment(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(r *Registry) error {
	w, err := r.Build(e.cfg)
	if err != nil {
		return err
	}
	e.world = w
	e.simulator = sim.New(w.Scene)
	if w.Tracked != nil {
		e.simulator.Track(w.Tracked)
	}
	for _, m := range r.DefaultMetrics(w) {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Seed:          e.cfg.Seed,
		Jitter:        e.cfg.Jitter,
		ValidateState: true,
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.Run(ctx, e.SimConfig())
}

func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }

func (e *Experiment) World() *World { return e.world }

func (e *Experiment) Config() *config.Config { return e.cfg }
