package metrics

import (
	"github.com/san-kum/polysim/internal/scene"
)

// Stability is the fraction of observed ticks on which every body's
// centroid lies inside the scene rectangle expanded by margin.
type Stability struct {
	name       string
	margin     float64
	violations int
	samples    int
}

func NewStability(margin float64) *Stability {
	return &Stability{
		name:   "stability",
		margin: margin,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sc *scene.Scene, t float64) {
	s.samples++
	for _, b := range sc.Bodies() {
		c := b.Centroid()
		if c.X < -s.margin || c.X > sc.Width()+s.margin ||
			c.Y < -s.margin || c.Y > sc.Height()+s.margin {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
