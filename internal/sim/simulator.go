package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

// Simulator drives a scene headlessly and records a sample per tick.
type Simulator struct {
	scene     *scene.Scene
	tracked   *body.Body
	metrics   []Metric
	observers []Observer
}

func New(s *scene.Scene) *Simulator {
	return &Simulator{
		scene:     s,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Track records the centroid of b in every sample while b is alive.
func (s *Simulator) Track(b *body.Body) { s.tracked = b }

func (s *Simulator) Scene() *scene.Scene { return s.scene }

// MetricValues reports the current value of every metric.
func (s *Simulator) MetricValues() map[string]float64 {
	values := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		values[m.Name()] = m.Value()
	}
	return values
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Samples: make([]Sample, 0, steps+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	removedAtStart := s.scene.Removed()
	t := 0.0

	result.Samples = append(result.Samples, s.sample(t, 0))

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Removed = s.scene.Removed() - removedAtStart
			return result, ctx.Err()
		default:
		}

		dt := cfg.Dt
		if cfg.Jitter > 0 {
			dt *= 1 + cfg.Jitter*(2*rng.Float64()-1)
		}

		s.scene.Tick(dt)
		t += dt
		result.StepsTaken++

		if cfg.ValidateState {
			if msg, ok := s.validateScene(); !ok {
				result.Errors = append(result.Errors, SimError{Time: t, Step: i, Message: msg})
				break
			}
		}

		sample := s.sample(t, dt)
		result.Samples = append(result.Samples, sample)

		for _, m := range s.metrics {
			m.Observe(s.scene, t)
		}
		for _, obs := range s.observers {
			obs.OnTick(s.scene, sample)
		}
	}

	result.Metrics = s.MetricValues()
	result.Removed = s.scene.Removed() - removedAtStart

	return result, nil
}

// RunRealtime ticks the scene at roughly fps frames per second using the
// measured wall-clock time between frames as dt. It stops when ctx is
// done or callback returns false.
func (s *Simulator) RunRealtime(ctx context.Context, fps int, callback func(Sample) bool) error {
	if fps <= 0 {
		return fmt.Errorf("%w: fps must be positive, got %d", ErrInvalidConfig, fps)
	}

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	last := time.Now()
	t := 0.0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now

			s.scene.Tick(dt)
			t += dt

			sample := s.sample(t, dt)
			for _, m := range s.metrics {
				m.Observe(s.scene, t)
			}
			for _, obs := range s.observers {
				obs.OnTick(s.scene, sample)
			}
			if !callback(sample) {
				return nil
			}
		}
	}
}

// Step advances the scene by a single tick and returns its sample.
func (s *Simulator) Step(dt float64) Sample {
	s.scene.Tick(dt)
	return s.sample(s.scene.Time(), dt)
}

func (s *Simulator) sample(t, dt float64) Sample {
	sample := Sample{
		Time:   t,
		Dt:     dt,
		Bodies: s.scene.NumBodies(),
		Forces: s.scene.NumForceCreators(),
	}

	momentum := geom.Zero
	for _, b := range s.scene.Bodies() {
		sample.Kinetic += b.KineticEnergy()
		momentum = momentum.Add(b.Momentum())
	}
	sample.Momentum = momentum

	if s.tracked != nil && !s.tracked.IsRemoved() {
		sample.Tracked = s.tracked.Centroid()
		sample.HasTracked = true
	}
	return sample
}

func (s *Simulator) validateScene() (string, bool) {
	for i, b := range s.scene.Bodies() {
		if !b.Centroid().IsValid() || !b.Velocity().IsValid() {
			return fmt.Sprintf("body %d (%s) has invalid state", i, b.Kind()), false
		}
	}
	return "", true
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Jitter < 0 || cfg.Jitter >= 1 {
		return fmt.Errorf("%w: jitter must be in [0, 1), got %f", ErrInvalidConfig, cfg.Jitter)
	}
	return nil
}
