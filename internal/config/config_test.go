package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "bounce" {
		t.Errorf("expected scenario bounce, got %s", cfg.Scenario)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("bounce", "lossy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Param("elasticity", 1) != 0.6 {
		t.Errorf("expected elasticity 0.6, got %f", cfg.Param("elasticity", 1))
	}
	if cfg.World.Width != DefaultWidth {
		t.Errorf("expected default world width, got %f", cfg.World.Width)
	}

	cfg.Params["elasticity"] = 0.1
	if Presets["bounce"]["lossy"].Params["elasticity"] != 0.6 {
		t.Error("modifying a preset copy changed the registry")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("bounce", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "elastic"); cfg != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	if presets := ListPresets("platformer"); len(presets) == 0 {
		t.Error("expected presets for platformer")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestParam(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.Param("count", 7); got != 7 {
		t.Errorf("expected default 7, got %f", got)
	}
	cfg.Params = map[string]float64{"count": 3}
	if got := cfg.Param("count", 7); got != 3 {
		t.Errorf("expected 3, got %f", got)
	}
}

const customYAML = `
scenario: custom
dt: 0.01
duration: 2
world:
  width: 200
  height: 100
  bodies:
    - name: floor
      kind: ground
      shape: rect
      center: [100, 5]
      width: 200
      height: 10
      mass: .inf
    - name: ball
      shape: regular
      center: [100, 50]
      radius: 5
      sides: 8
      mass: 1
      velocity: [0, -10]
  forces:
    - type: gravity
      bodies: [ball]
      value: 9.8
    - type: physics_collision
      bodies: [ball, floor]
      value: 0.9
`

func TestLoadCustom(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	if err := os.WriteFile(path, []byte(customYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if len(cfg.World.Bodies) != 2 || len(cfg.World.Forces) != 2 {
		t.Fatalf("expected 2 bodies and 2 forces, got %d and %d", len(cfg.World.Bodies), len(cfg.World.Forces))
	}
	if !math.IsInf(cfg.World.Bodies[0].Mass, 1) {
		t.Errorf("expected infinite floor mass, got %f", cfg.World.Bodies[0].Mass)
	}
	if cfg.World.Bodies[1].Velocity != (Point{0, -10}) {
		t.Errorf("unexpected ball velocity %v", cfg.World.Bodies[1].Velocity)
	}
}

func TestSaveLoadKeepsInfiniteMass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.World.Bodies = []BodyConfig{
		{Name: "wall", Shape: ShapeRect, Width: 1, Height: 1, Mass: math.Inf(1)},
	}

	path := filepath.Join(t.TempDir(), "cfg.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatalf("save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !math.IsInf(loaded.World.Bodies[0].Mass, 1) {
		t.Errorf("expected .inf to survive a round trip, got %f", loaded.World.Bodies[0].Mass)
	}
}

func TestValidate(t *testing.T) {
	ball := BodyConfig{Name: "ball", Shape: ShapeRegular, Radius: 1, Sides: 6, Mass: 1}
	wall := BodyConfig{Name: "wall", Shape: ShapeRect, Width: 1, Height: 1, Mass: math.Inf(1)}

	tests := []struct {
		name   string
		mutate func(c *Config)
		want   error
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, ErrInvalidRun},
		{"negative duration", func(c *Config) { c.Duration = -1 }, ErrInvalidRun},
		{"jitter one", func(c *Config) { c.Jitter = 1 }, ErrInvalidRun},
		{"zero world", func(c *Config) { c.World.Width = 0 }, ErrInvalidRun},
		{"zero mass", func(c *Config) {
			b := ball
			b.Mass = 0
			c.World.Bodies = []BodyConfig{b}
		}, ErrInvalidBody},
		{"unknown shape", func(c *Config) {
			b := ball
			b.Shape = "circle"
			c.World.Bodies = []BodyConfig{b}
		}, ErrInvalidBody},
		{"too few vertices", func(c *Config) {
			c.World.Bodies = []BodyConfig{{Name: "p", Shape: ShapePolygon, Vertices: []Point{{0, 0}, {1, 0}}, Mass: 1}}
		}, ErrInvalidBody},
		{"duplicate names", func(c *Config) { c.World.Bodies = []BodyConfig{ball, ball} }, ErrInvalidBody},
		{"unknown force", func(c *Config) {
			c.World.Bodies = []BodyConfig{ball}
			c.World.Forces = []ForceConfig{{Type: "magnetism", All: true}}
		}, ErrInvalidForce},
		{"unknown body", func(c *Config) {
			c.World.Bodies = []BodyConfig{ball}
			c.World.Forces = []ForceConfig{{Type: ForceGravity, Bodies: []string{"rock"}}}
		}, ErrInvalidForce},
		{"wrong arity", func(c *Config) {
			c.World.Bodies = []BodyConfig{ball, wall}
			c.World.Forces = []ForceConfig{{Type: ForceSpring, Bodies: []string{"ball"}}}
		}, ErrInvalidForce},
		{"all with bodies", func(c *Config) {
			c.World.Bodies = []BodyConfig{ball}
			c.World.Forces = []ForceConfig{{Type: ForceDrag, Bodies: []string{"ball"}, All: true}}
		}, ErrInvalidForce},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
