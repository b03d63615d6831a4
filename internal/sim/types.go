package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

var (
	// ErrInvalidState indicates a body whose centroid or velocity became NaN or Inf.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("sim: invalid config")
)

type Metric interface {
	Name() string
	Observe(s *scene.Scene, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s *scene.Scene, sample Sample)
}

type Config struct {
	Dt            float64
	Duration      float64
	Seed          int64
	Jitter        float64
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60,
		Duration:      10.0,
		Jitter:        0,
		ValidateState: true,
	}
}

// Sample is the scene summary recorded after each tick.
type Sample struct {
	Time       float64     `json:"time"`
	Dt         float64     `json:"dt"`
	Bodies     int         `json:"bodies"`
	Forces     int         `json:"forces"`
	Kinetic    float64     `json:"kinetic"`
	Momentum   geom.Vector `json:"momentum"`
	Tracked    geom.Vector `json:"tracked"`
	HasTracked bool        `json:"has_tracked"`
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Removed    int
	Errors     []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

func (e SimError) Unwrap() error {
	return ErrInvalidState
}
