package metrics

import (
	"github.com/san-kum/polysim/internal/scene"
)

// MaxSpeed reports the largest body speed seen.
type MaxSpeed struct {
	name string
	max  float64
}

func NewMaxSpeed() *MaxSpeed {
	return &MaxSpeed{name: "max_speed"}
}

func (m *MaxSpeed) Name() string { return m.name }

func (m *MaxSpeed) Observe(s *scene.Scene, t float64) {
	for _, b := range s.Bodies() {
		if v := b.Velocity().Length(); v > m.max {
			m.max = v
		}
	}
}

func (m *MaxSpeed) Value() float64 { return m.max }

func (m *MaxSpeed) Reset() { m.max = 0 }

// BodyCount reports the number of live bodies at the last observation.
type BodyCount struct {
	name  string
	count int
}

func NewBodyCount() *BodyCount {
	return &BodyCount{name: "bodies"}
}

func (c *BodyCount) Name() string { return c.name }

func (c *BodyCount) Observe(s *scene.Scene, t float64) {
	c.count = s.NumBodies()
}

func (c *BodyCount) Value() float64 { return float64(c.count) }

func (c *BodyCount) Reset() { c.count = 0 }
