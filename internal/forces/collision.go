package forces

import (
	"math"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/collision"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

// CollisionHandler is called when two bodies start touching. Axis is the
// unit collision axis pointing from b1 toward b2.
type CollisionHandler func(b1, b2 *body.Body, axis geom.Vector)

// CollisionBinding runs SAT on a pair of bodies each tick and calls
// Handler on the transition from separated to contacting. Contacting is
// latched until the shapes separate again.
type CollisionBinding struct {
	Body1, Body2 *body.Body
	Handler      CollisionHandler
	Contacting   bool
	Fired        int
}

func (c *CollisionBinding) Apply() {
	res := collision.Detect(c.Body1.Shape(), c.Body2.Shape())
	if !res.Collided {
		c.Contacting = false
		return
	}
	if c.Contacting {
		return
	}
	c.Contacting = true
	c.Fired++
	c.Handler(c.Body1, c.Body2, res.Axis)
}

func CreateCollision(s *scene.Scene, b1, b2 *body.Body, handler CollisionHandler) *CollisionBinding {
	fc := &CollisionBinding{Body1: b1, Body2: b2, Handler: handler}
	s.AddBodiesForceCreator(fc, b1, b2)
	return fc
}

// DestroyBoth removes both bodies on contact.
func DestroyBoth(b1, b2 *body.Body, _ geom.Vector) {
	b1.Remove()
	b2.Remove()
}

func CreateDestructiveCollision(s *scene.Scene, b1, b2 *body.Body) *CollisionBinding {
	return CreateCollision(s, b1, b2, DestroyBoth)
}

// ReducedMass returns the effective two-body mass. An immovable partner
// leaves the other body's mass unchanged.
func ReducedMass(m1, m2 float64) float64 {
	switch {
	case math.IsInf(m1, 1):
		return m2
	case math.IsInf(m2, 1):
		return m1
	}
	return m1 * m2 / (m1 + m2)
}

// ElasticHandler returns a handler that resolves contact with an impulse
// along the collision axis only. No friction is applied.
func ElasticHandler(elasticity float64) CollisionHandler {
	return func(b1, b2 *body.Body, axis geom.Vector) {
		u1 := b1.Velocity().Dot(axis)
		u2 := b2.Velocity().Dot(axis)

		j := ReducedMass(b1.Mass(), b2.Mass()) * (1 + elasticity) * (u2 - u1)
		impulse := axis.Scale(j)
		b1.AddImpulse(impulse)
		b2.AddImpulse(impulse.Negate())
	}
}

func CreatePhysicsCollision(s *scene.Scene, elasticity float64, b1, b2 *body.Body) *CollisionBinding {
	return CreateCollision(s, b1, b2, ElasticHandler(elasticity))
}
