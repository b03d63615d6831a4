package body

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/polysim/internal/geom"
)

const (
	MinElasticity = 0.8
	MaxElasticity = 1.0
)

// InfiniteMass marks a body that forces and impulses cannot move.
var InfiniteMass = math.Inf(1)

type RGB struct {
	R, G, B float32
}

// Body is a convex polygon rigid body kept in world coordinates.
//
// The cached centroid always matches the polygon: every mutation that
// moves the shape moves the centroid with it. Force and impulse are
// accumulated during a tick and cleared by Tick.
type Body struct {
	shape      geom.Polygon
	centroid   geom.Vector
	mass       float64
	color      RGB
	velocity   geom.Vector
	force      geom.Vector
	impulse    geom.Vector
	angle      float64
	angvel     float64
	elasticity float64
	kind       Kind
	info       Info
	texture    string
	flipped    bool
	removed    bool
}

type Option func(*Body)

func WithColor(c RGB) Option { return func(b *Body) { b.color = c } }

func WithKind(k Kind) Option { return func(b *Body) { b.kind = k } }

func WithInfo(info Info) Option { return func(b *Body) { b.info = info } }

func WithElasticity(e float64) Option { return func(b *Body) { b.elasticity = e } }

func WithVelocity(v geom.Vector) Option { return func(b *Body) { b.velocity = v } }

// WithTexture attaches a display texture. Textured bodies keep their
// polygon axis-aligned; rotation only changes the stored angle.
func WithTexture(ref string) Option { return func(b *Body) { b.texture = ref } }

// New builds a body that takes ownership of shape.
func New(shape geom.Polygon, mass float64, opts ...Option) (*Body, error) {
	if len(shape) == 0 {
		return nil, ErrEmptyShape
	}
	if math.IsNaN(mass) || mass <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidMass, mass)
	}
	for i, v := range shape {
		if !v.IsValid() {
			return nil, fmt.Errorf("%w: vertex %d is %v", ErrInvalidShape, i, v)
		}
	}

	b := &Body{
		shape:      shape,
		centroid:   geom.Centroid(shape),
		mass:       mass,
		elasticity: MaxElasticity,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// MustNew is like New but panics on invalid input.
func MustNew(shape geom.Polygon, mass float64, opts ...Option) *Body {
	b, err := New(shape, mass, opts...)
	if err != nil {
		panic(err)
	}
	return b
}

// NewSprite builds a textured width x height rectangle with its lower-left
// corner at the origin.
func NewSprite(mass float64, kind Kind, texture string, width, height float64, opts ...Option) (*Body, error) {
	shape := geom.Polygon{
		{X: 0, Y: 0},
		{X: 0, Y: height},
		{X: width, Y: height},
		{X: width, Y: 0},
	}
	opts = append([]Option{WithKind(kind), WithTexture(texture)}, opts...)
	return New(shape, mass, opts...)
}

// RandomElasticity draws a restitution coefficient in [MinElasticity, MaxElasticity).
func RandomElasticity(r *rand.Rand) float64 {
	return MinElasticity + r.Float64()*(MaxElasticity-MinElasticity)
}

// Shape returns a copy of the polygon.
func (b *Body) Shape() geom.Polygon { return b.shape.Clone() }

// Size returns the number of vertices.
func (b *Body) Size() int { return len(b.shape) }

func (b *Body) Centroid() geom.Vector    { return b.centroid }
func (b *Body) Velocity() geom.Vector    { return b.velocity }
func (b *Body) Force() geom.Vector       { return b.force }
func (b *Body) Impulse() geom.Vector     { return b.impulse }
func (b *Body) Mass() float64            { return b.mass }
func (b *Body) Elasticity() float64      { return b.elasticity }
func (b *Body) Angle() float64           { return b.angle }
func (b *Body) AngularVelocity() float64 { return b.angvel }
func (b *Body) Color() RGB               { return b.color }
func (b *Body) Kind() Kind               { return b.kind }
func (b *Body) Info() Info               { return b.info }
func (b *Body) Texture() string          { return b.texture }
func (b *Body) Textured() bool           { return b.texture != "" }
func (b *Body) Flipped() bool            { return b.flipped }
func (b *Body) IsRemoved() bool          { return b.removed }
func (b *Body) IsImmovable() bool        { return math.IsInf(b.mass, 1) }

func (b *Body) SetVelocity(v geom.Vector)    { b.velocity = v }
func (b *Body) SetAngularVelocity(w float64) { b.angvel = w }
func (b *Body) SetColor(c RGB)               { b.color = c }
func (b *Body) SetInfo(info Info)            { b.info = info }
func (b *Body) SetTexture(ref string)        { b.texture = ref }
func (b *Body) SetFlipped(flipped bool)      { b.flipped = flipped }
func (b *Body) SetElasticity(e float64)      { b.elasticity = e }

// SetCentroid moves the whole shape so that its centroid lands on c.
func (b *Body) SetCentroid(c geom.Vector) {
	b.shape.Translate(c.Sub(b.centroid))
	b.centroid = c
}

// SetRotation sets the absolute angle. Untextured bodies rotate their
// polygon about the centroid by the change in angle.
func (b *Body) SetRotation(angle float64) {
	if !b.Textured() {
		b.shape.Rotate(angle-b.angle, b.centroid)
	}
	b.angle = angle
}

func (b *Body) AddForce(f geom.Vector) {
	b.force = b.force.Add(f)
}

// AddImpulse accumulates an instantaneous momentum change. It is a no-op
// for immovable bodies.
func (b *Body) AddImpulse(j geom.Vector) {
	if b.IsImmovable() {
		return
	}
	b.impulse = b.impulse.Add(j)
}

// KineticEnergy returns the translational kinetic energy, zero for
// immovable bodies.
func (b *Body) KineticEnergy() float64 {
	if b.IsImmovable() {
		return 0
	}
	return 0.5 * b.mass * b.velocity.Dot(b.velocity)
}

// Momentum returns mass times velocity, zero for immovable bodies.
func (b *Body) Momentum() geom.Vector {
	if b.IsImmovable() {
		return geom.Zero
	}
	return b.velocity.Scale(b.mass)
}

// Tick advances the body by dt using the average of the old and new
// velocities, then clears the accumulated force and impulse.
func (b *Body) Tick(dt float64) {
	newVel := b.velocity
	if !b.IsImmovable() {
		accel := b.force.Scale(1 / b.mass)
		newVel = newVel.Add(accel.Scale(dt)).Add(b.impulse.Scale(1 / b.mass))
	}

	avgVel := b.velocity.Add(newVel).Scale(0.5)
	dx := avgVel.Scale(dt)
	b.centroid = b.centroid.Add(dx)
	b.shape.Translate(dx)

	rot := b.angvel * dt
	b.angle += rot
	if !b.Textured() {
		b.shape.Rotate(rot, b.centroid)
	}

	b.velocity = newVel
	b.force = geom.Zero
	b.impulse = geom.Zero
}

// Remove flags the body for removal at the next scene sweep.
func (b *Body) Remove() { b.removed = true }

// Destroy releases the info payload. The scene calls it once, when the
// body is swept out.
func (b *Body) Destroy() {
	if r, ok := b.info.(Releaser); ok {
		r.Release()
	}
	b.info = nil
	b.shape = nil
	b.texture = ""
}
