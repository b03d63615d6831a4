package scenario

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/config"
	"github.com/san-kum/polysim/internal/metrics"
	"github.com/san-kum/polysim/internal/scene"
	"github.com/san-kum/polysim/internal/sim"
)

var ErrUnknownScenario = errors.New("scenario: unknown scenario")

// World is a built scene together with what a run needs to know about it.
type World struct {
	Scene   *scene.Scene
	Tracked *body.Body
	Gravity float64
	Named   map[string]*body.Body
}

// Builder creates a fresh world from a run configuration. All randomness
// must come from rng.
type Builder func(cfg *config.Config, rng *rand.Rand) (*World, error)

type entry struct {
	build       Builder
	description string
}

type Registry struct {
	scenarios map[string]entry
}

func NewRegistry() *Registry {
	r := &Registry{
		scenarios: make(map[string]entry),
	}

	r.Register("bounce", "polygons bouncing elastically inside four walls", buildBounce)
	r.Register("orbit", "satellites in Newtonian orbit around a heavy star", buildOrbit)
	r.Register("springs", "a damped chain of boxes hanging from a fixed anchor", buildSprings)
	r.Register("breakout", "a ball clearing a wall of bricks above a paddle", buildBreakout)
	r.Register("platformer", "a hopping player collecting coins and dodging goombas", buildPlatformer)
	r.Register("custom", "bodies and forces read from the world section of a config file", buildCustom)

	return r
}

func (r *Registry) Register(name, description string, build Builder) {
	r.scenarios[name] = entry{build: build, description: description}
}

func (r *Registry) Get(name string) (Builder, error) {
	e, ok := r.scenarios[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}
	return e.build, nil
}

func (r *Registry) Describe(name string) string {
	return r.scenarios[name].description
}

func (r *Registry) List() []string {
	names := make([]string, 0, len(r.scenarios))
	for name := range r.scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build validates cfg and builds its scenario seeded with cfg.Seed.
func (r *Registry) Build(cfg *config.Config) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	build, err := r.Get(cfg.Scenario)
	if err != nil {
		return nil, err
	}
	w, err := build(cfg, rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", cfg.Scenario, err)
	}
	if w.Named == nil {
		w.Named = make(map[string]*body.Body)
	}
	return w, nil
}

func (r *Registry) DefaultMetrics(w *World) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergy(),
		metrics.NewEnergyDrift(w.Gravity),
		metrics.NewMaxSpeed(),
		metrics.NewBodyCount(),
		metrics.NewStability(50.0),
	}
}
