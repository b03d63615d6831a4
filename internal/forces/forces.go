package forces

import (
	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

// MinGravityDistance is the centroid separation below which Newtonian
// attraction is not applied.
const MinGravityDistance = 5.0

// Gravity pulls a body toward -y with acceleration G.
type Gravity struct {
	Body *body.Body
	G    float64
}

func (g *Gravity) Apply() {
	if g.Body.IsImmovable() {
		return
	}
	g.Body.AddForce(geom.Vec(0, -g.Body.Mass()*g.G))
}

func CreateGravity(s *scene.Scene, g float64, b *body.Body) *Gravity {
	fc := &Gravity{Body: b, G: g}
	s.AddBodiesForceCreator(fc, b)
	return fc
}

// Drag applies a force opposing velocity with coefficient Gamma.
type Drag struct {
	Body  *body.Body
	Gamma float64
}

func (d *Drag) Apply() {
	d.Body.AddForce(d.Body.Velocity().Scale(-d.Gamma))
}

func CreateDrag(s *scene.Scene, gamma float64, b *body.Body) *Drag {
	fc := &Drag{Body: b, Gamma: gamma}
	s.AddBodiesForceCreator(fc, b)
	return fc
}

// NewtonianGravity attracts two bodies with magnitude G*m1*m2/d^2. Pairs
// closer than MinDistance, or with an immovable member, feel no force.
type NewtonianGravity struct {
	Body1, Body2 *body.Body
	G            float64
	MinDistance  float64
}

func (n *NewtonianGravity) Apply() {
	if n.Body1.IsImmovable() || n.Body2.IsImmovable() {
		return
	}
	delta := n.Body2.Centroid().Sub(n.Body1.Centroid())
	dist := delta.Length()
	if dist < n.MinDistance || dist == 0 {
		return
	}

	mag := n.G * n.Body1.Mass() * n.Body2.Mass() / (dist * dist)
	f := delta.Scale(mag / dist)
	n.Body1.AddForce(f)
	n.Body2.AddForce(f.Negate())
}

func CreateNewtonianGravity(s *scene.Scene, g float64, b1, b2 *body.Body) *NewtonianGravity {
	fc := &NewtonianGravity{Body1: b1, Body2: b2, G: g, MinDistance: MinGravityDistance}
	s.AddBodiesForceCreator(fc, b1, b2)
	return fc
}

// Spring pulls two bodies together with magnitude K*d. It has no rest
// length, so the force only vanishes when the centroids coincide.
type Spring struct {
	Body1, Body2 *body.Body
	K            float64
}

func (sp *Spring) Apply() {
	f := sp.Body2.Centroid().Sub(sp.Body1.Centroid()).Scale(sp.K)
	sp.Body1.AddForce(f)
	sp.Body2.AddForce(f.Negate())
}

func CreateSpring(s *scene.Scene, k float64, b1, b2 *body.Body) *Spring {
	fc := &Spring{Body1: b1, Body2: b2, K: k}
	s.AddBodiesForceCreator(fc, b1, b2)
	return fc
}
