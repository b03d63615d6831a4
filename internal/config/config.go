package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
	DefaultWidth    = 1000.0
	DefaultHeight   = 500.0
	DefaultScenario = "bounce"
)

var (
	ErrInvalidRun   = errors.New("config: invalid run settings")
	ErrInvalidBody  = errors.New("config: invalid body")
	ErrInvalidForce = errors.New("config: invalid force")
)

const (
	ShapeRect    = "rect"
	ShapePolygon = "polygon"
	ShapeRegular = "regular"
	ShapeSprite  = "sprite"
)

const (
	ForceGravity              = "gravity"
	ForceDrag                 = "drag"
	ForceSpring               = "spring"
	ForceNewtonian            = "newtonian"
	ForcePhysicsCollision     = "physics_collision"
	ForceDestructiveCollision = "destructive_collision"
	ForceKeepOnScreen         = "keep_on_screen"
	ForceFreeOnExit           = "free_on_exit"
)

// Config is a complete run description: which scenario to build, how to
// step it, and scenario-specific parameters.
type Config struct {
	Scenario string             `yaml:"scenario"`
	Dt       float64            `yaml:"dt"`
	Duration float64            `yaml:"duration"`
	Seed     int64              `yaml:"seed"`
	Jitter   float64            `yaml:"jitter"`
	Realtime bool               `yaml:"realtime"`
	Params   map[string]float64 `yaml:"params,omitempty"`
	World    ScenarioConfig     `yaml:"world"`
}

// ScenarioConfig describes a scene declaratively. It is used by the
// "custom" scenario.
type ScenarioConfig struct {
	Width  float64       `yaml:"width"`
	Height float64       `yaml:"height"`
	Bodies []BodyConfig  `yaml:"bodies,omitempty"`
	Forces []ForceConfig `yaml:"forces,omitempty"`
}

// Point is written as a flow sequence: [x, y].
type Point [2]float64

type BodyConfig struct {
	Name            string  `yaml:"name"`
	Kind            string  `yaml:"kind,omitempty"`
	Shape           string  `yaml:"shape"`
	Vertices        []Point `yaml:"vertices,omitempty,flow"`
	Width           float64 `yaml:"width,omitempty"`
	Height          float64 `yaml:"height,omitempty"`
	Radius          float64 `yaml:"radius,omitempty"`
	Sides           int     `yaml:"sides,omitempty"`
	Center          Point   `yaml:"center,flow"`
	Mass            float64 `yaml:"mass"`
	Velocity        Point   `yaml:"velocity,flow"`
	AngularVelocity float64 `yaml:"angular_velocity,omitempty"`
	Angle           float64 `yaml:"angle,omitempty"`
	Elasticity      float64 `yaml:"elasticity,omitempty"`
	Texture         string  `yaml:"texture,omitempty"`
}

type ForceConfig struct {
	Type   string   `yaml:"type"`
	Bodies []string `yaml:"bodies,omitempty,flow"`
	Value  float64  `yaml:"value"`
	All    bool     `yaml:"all,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario: DefaultScenario,
		Dt:       DefaultDt,
		Duration: DefaultDuration,
		World: ScenarioConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Param returns the named scenario parameter or def when it is unset.
func (c *Config) Param(name string, def float64) float64 {
	if v, ok := c.Params[name]; ok {
		return v
	}
	return def
}

func (c *Config) Validate() error {
	if c.Dt <= 0 || math.IsNaN(c.Dt) || math.IsInf(c.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %v", ErrInvalidRun, c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidRun, c.Duration)
	}
	if c.Jitter < 0 || c.Jitter >= 1 {
		return fmt.Errorf("%w: jitter must be in [0, 1), got %v", ErrInvalidRun, c.Jitter)
	}
	return c.World.Validate()
}

func (w *ScenarioConfig) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("%w: world size must be positive, got %vx%v", ErrInvalidRun, w.Width, w.Height)
	}

	names := make(map[string]bool, len(w.Bodies))
	for i, b := range w.Bodies {
		if err := b.validate(); err != nil {
			return fmt.Errorf("body %d (%q): %w", i, b.Name, err)
		}
		if b.Name != "" {
			if names[b.Name] {
				return fmt.Errorf("%w: duplicate name %q", ErrInvalidBody, b.Name)
			}
			names[b.Name] = true
		}
	}

	for i, f := range w.Forces {
		if err := f.validate(names); err != nil {
			return fmt.Errorf("force %d (%s): %w", i, f.Type, err)
		}
	}
	return nil
}

func (b *BodyConfig) validate() error {
	if !(b.Mass > 0) {
		return fmt.Errorf("%w: mass must be positive or .inf, got %v", ErrInvalidBody, b.Mass)
	}
	if b.Elasticity < 0 {
		return fmt.Errorf("%w: negative elasticity %v", ErrInvalidBody, b.Elasticity)
	}

	switch b.Shape {
	case ShapeRect, ShapeSprite:
		if b.Width <= 0 || b.Height <= 0 {
			return fmt.Errorf("%w: %s needs positive width and height", ErrInvalidBody, b.Shape)
		}
	case ShapeRegular:
		if b.Radius <= 0 || b.Sides < 3 {
			return fmt.Errorf("%w: regular needs radius > 0 and sides >= 3", ErrInvalidBody)
		}
	case ShapePolygon:
		if len(b.Vertices) < 3 {
			return fmt.Errorf("%w: polygon needs at least 3 vertices, got %d", ErrInvalidBody, len(b.Vertices))
		}
	default:
		return fmt.Errorf("%w: unknown shape %q", ErrInvalidBody, b.Shape)
	}
	return nil
}

func (f *ForceConfig) validate(names map[string]bool) error {
	for _, n := range f.Bodies {
		if !names[n] {
			return fmt.Errorf("%w: unknown body %q", ErrInvalidForce, n)
		}
	}

	want := 0
	switch f.Type {
	case ForceGravity, ForceDrag, ForceKeepOnScreen, ForceFreeOnExit:
		want = 1
	case ForceSpring, ForceNewtonian, ForcePhysicsCollision, ForceDestructiveCollision:
		want = 2
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidForce, f.Type)
	}

	if f.All {
		if len(f.Bodies) != 0 {
			return fmt.Errorf("%w: all and bodies are exclusive", ErrInvalidForce)
		}
		return nil
	}
	if len(f.Bodies) != want {
		return fmt.Errorf("%w: %s takes %d bodies, got %d", ErrInvalidForce, f.Type, want, len(f.Bodies))
	}
	return nil
}
