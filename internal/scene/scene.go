package scene

import (
	"fmt"
	"math"

	"github.com/san-kum/polysim/internal/body"
)

// ForceCreator applies forces or impulses once per tick. Creators that
// hold state needing cleanup implement [Releaser].
type ForceCreator interface {
	Apply()
}

// ForceCreatorFunc adapts a plain function to ForceCreator.
type ForceCreatorFunc func()

func (f ForceCreatorFunc) Apply() { f() }

// Releaser is implemented by force creators with captured state to
// dispose of when their registration is dropped.
type Releaser interface {
	Release()
}

// Handle identifies a force creator registration.
type Handle uint64

type registration struct {
	handle  Handle
	creator ForceCreator
	bodies  []*body.Body
	dead    bool
}

func (r *registration) stale() bool {
	if r.dead {
		return true
	}
	for _, b := range r.bodies {
		if b.IsRemoved() {
			return true
		}
	}
	return false
}

func (r *registration) release() {
	if rel, ok := r.creator.(Releaser); ok {
		rel.Release()
	}
	r.creator = nil
	r.bodies = nil
}

type Scene struct {
	width   float64
	height  float64
	bodies  []*body.Body
	forces  []*registration
	next    Handle
	ticks   int
	time    float64
	removed int
}

func New(width, height float64) *Scene {
	return &Scene{
		width:  width,
		height: height,
		bodies: make([]*body.Body, 0, 64),
		forces: make([]*registration, 0, 64),
	}
}

func (s *Scene) Width() float64  { return s.width }
func (s *Scene) Height() float64 { return s.height }

func (s *Scene) NumBodies() int        { return len(s.bodies) }
func (s *Scene) NumForceCreators() int { return len(s.forces) }

// Ticks returns the number of completed ticks.
func (s *Scene) Ticks() int { return s.ticks }

// Time returns the sum of all dt values ticked so far.
func (s *Scene) Time() float64 { return s.time }

// Removed returns how many bodies have been destroyed by sweeps.
func (s *Scene) Removed() int { return s.removed }

// Body returns the body at index i. It panics if i is out of range.
func (s *Scene) Body(i int) *body.Body {
	if i < 0 || i >= len(s.bodies) {
		panic(fmt.Sprintf("scene: body index %d out of range [0,%d)", i, len(s.bodies)))
	}
	return s.bodies[i]
}

// Bodies returns a snapshot of the scene's bodies in insertion order.
func (s *Scene) Bodies() []*body.Body {
	out := make([]*body.Body, len(s.bodies))
	copy(out, s.bodies)
	return out
}

func (s *Scene) AddBody(b *body.Body) {
	if b == nil {
		panic("scene: nil body")
	}
	s.bodies = append(s.bodies, b)
}

// RemoveBody flags the body at index i for removal.
//
// Deprecated: call Remove on the body itself.
func (s *Scene) RemoveBody(i int) {
	s.Body(i).Remove()
}

// AddForceCreator registers a creator that depends on no bodies. It stays
// registered until removed explicitly.
func (s *Scene) AddForceCreator(fc ForceCreator) Handle {
	return s.AddBodiesForceCreator(fc)
}

// AddBodiesForceCreator registers a creator that is dropped, and released,
// as soon as any of bodies is flagged for removal.
func (s *Scene) AddBodiesForceCreator(fc ForceCreator, bodies ...*body.Body) Handle {
	if fc == nil {
		panic("scene: nil force creator")
	}
	for i, b := range bodies {
		if b == nil {
			panic(fmt.Sprintf("scene: nil dependency body at %d", i))
		}
	}

	s.next++
	deps := make([]*body.Body, len(bodies))
	copy(deps, bodies)
	s.forces = append(s.forces, &registration{
		handle:  s.next,
		creator: fc,
		bodies:  deps,
	})
	return s.next
}

// RemoveForceCreator drops a registration at the next pruning phase. It
// reports whether the handle was registered.
func (s *Scene) RemoveForceCreator(h Handle) bool {
	for _, r := range s.forces {
		if r.handle == h && !r.dead {
			r.dead = true
			return true
		}
	}
	return false
}

// Tick advances the scene by dt. It panics if dt is negative or not finite.
func (s *Scene) Tick(dt float64) {
	if dt < 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		panic(fmt.Sprintf("scene: invalid dt %v", dt))
	}

	s.applyForces()
	s.pruneForces()
	s.integrate(dt)

	s.ticks++
	s.time += dt
}

func (s *Scene) applyForces() {
	// creators may register more creators; those wait for the next tick
	n := len(s.forces)
	for i := 0; i < n; i++ {
		r := s.forces[i]
		if r.dead {
			continue
		}
		r.creator.Apply()
	}
}

func (s *Scene) pruneForces() {
	kept := s.forces[:0]
	for _, r := range s.forces {
		if r.stale() {
			r.release()
			continue
		}
		kept = append(kept, r)
	}
	clear(s.forces[len(kept):])
	s.forces = kept
}

func (s *Scene) integrate(dt float64) {
	swept := false
	for i := len(s.bodies) - 1; i >= 0; i-- {
		b := s.bodies[i]
		b.Tick(dt)
		if b.IsRemoved() {
			b.Destroy()
			s.bodies[i] = nil
			s.removed++
			swept = true
		}
	}
	if !swept {
		return
	}

	kept := s.bodies[:0]
	for _, b := range s.bodies {
		if b != nil {
			kept = append(kept, b)
		}
	}
	clear(s.bodies[len(kept):])
	s.bodies = kept
}

// Close destroys every body and releases every force creator.
func (s *Scene) Close() {
	for _, r := range s.forces {
		r.release()
	}
	for _, b := range s.bodies {
		b.Destroy()
	}
	s.forces = nil
	s.bodies = nil
}
