package scene_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

type countingCreator struct {
	calls    int
	released int
}

func (c *countingCreator) Apply()   { c.calls++ }
func (c *countingCreator) Release() { c.released++ }

func newBox(x, y float64) *body.Body {
	return body.MustNew(geom.Rect(geom.Vec(x, y), 1, 1), 1)
}

var _ = Describe("Scene", func() {
	var s *scene.Scene

	BeforeEach(func() {
		s = scene.New(800, 600)
	})

	It("keeps bodies in insertion order", func() {
		a, b, c := newBox(0, 0), newBox(1, 0), newBox(2, 0)
		s.AddBody(a)
		s.AddBody(b)
		s.AddBody(c)

		Expect(s.NumBodies()).To(Equal(3))
		Expect(s.Body(0)).To(BeIdenticalTo(a))
		Expect(s.Bodies()).To(Equal([]*body.Body{a, b, c}))
		Expect(s.Width()).To(Equal(800.0))
		Expect(s.Height()).To(Equal(600.0))
	})

	It("panics on an out-of-range index", func() {
		Expect(func() { s.Body(0) }).To(Panic())
		s.AddBody(newBox(0, 0))
		Expect(func() { s.Body(1) }).To(Panic())
		Expect(func() { s.Body(-1) }).To(Panic())
	})

	It("panics on a negative dt", func() {
		Expect(func() { s.Tick(-0.1) }).To(Panic())
	})

	It("applies creators in registration order", func() {
		var order []int
		for i := 0; i < 4; i++ {
			i := i
			s.AddForceCreator(scene.ForceCreatorFunc(func() { order = append(order, i) }))
		}

		s.Tick(0.01)

		Expect(order).To(Equal([]int{0, 1, 2, 3}))
	})

	It("does not run creators registered during the force phase until the next tick", func() {
		inner := &countingCreator{}
		registered := false
		s.AddForceCreator(scene.ForceCreatorFunc(func() {
			if !registered {
				registered = true
				s.AddForceCreator(inner)
			}
		}))

		s.Tick(0.01)
		Expect(inner.calls).To(Equal(0))
		Expect(s.NumForceCreators()).To(Equal(2))

		s.Tick(0.01)
		Expect(inner.calls).To(Equal(1))
	})

	Context("when a dependency body is removed", func() {
		var a, b *body.Body
		var bound, free *countingCreator

		BeforeEach(func() {
			a, b = newBox(0, 0), newBox(5, 0)
			s.AddBody(a)
			s.AddBody(b)
			bound = &countingCreator{}
			free = &countingCreator{}
			s.AddBodiesForceCreator(bound, a, b)
			s.AddBodiesForceCreator(free, a)
		})

		It("drops and releases registrations bound to it in the same tick", func() {
			b.Remove()
			s.Tick(0.01)

			Expect(bound.calls).To(Equal(1))
			Expect(bound.released).To(Equal(1))
			Expect(free.released).To(Equal(0))
			Expect(s.NumForceCreators()).To(Equal(1))
			Expect(s.Bodies()).To(Equal([]*body.Body{a}))
			Expect(s.Removed()).To(Equal(1))

			s.Tick(0.01)
			Expect(bound.calls).To(Equal(1))
			Expect(free.calls).To(Equal(2))
		})
	})

	It("lets later creators read a body removed earlier in the same tick", func() {
		a, b := newBox(0, 0), newBox(3, 0)
		s.AddBody(a)
		s.AddBody(b)

		s.AddForceCreator(scene.ForceCreatorFunc(func() { b.Remove() }))
		s.AddBodiesForceCreator(scene.ForceCreatorFunc(func() {
			a.AddForce(b.Centroid().Sub(a.Centroid()))
		}), a, b)

		s.Tick(1)

		// force (3,0) on unit mass for one second: v=3, dx=1.5
		Expect(a.Velocity()).To(Equal(geom.Vec(3, 0)))
		Expect(a.Centroid().X).To(BeNumerically("~", 1.5, 1e-9))
		Expect(s.NumBodies()).To(Equal(1))
		Expect(s.NumForceCreators()).To(Equal(1))
	})

	It("sweeps several removed bodies and keeps the survivors ordered", func() {
		bodies := make([]*body.Body, 6)
		for i := range bodies {
			bodies[i] = newBox(float64(i), 0)
			s.AddBody(bodies[i])
		}
		bodies[0].Remove()
		s.RemoveBody(3)
		bodies[5].Remove()

		s.Tick(0.01)

		Expect(s.Bodies()).To(Equal([]*body.Body{bodies[1], bodies[2], bodies[4]}))
		Expect(s.Removed()).To(Equal(3))
	})

	It("releases the info payload of swept bodies", func() {
		proj := newBox(9, 9)
		info := &body.ObstacleInfo{}
		info.AddProjectile(proj)
		owner := body.MustNew(geom.Rect(geom.Zero, 2, 2), 10, body.WithInfo(info))
		s.AddBody(proj)
		s.AddBody(owner)

		owner.Remove()
		s.Tick(0.01)

		// the sweep runs from the back, so the projectile is flagged
		// before its own slot is visited
		Expect(proj.IsRemoved()).To(BeTrue())
		Expect(s.NumBodies()).To(Equal(0))
	})

	It("removes a registration by handle", func() {
		c := &countingCreator{}
		h := s.AddForceCreator(c)

		Expect(s.RemoveForceCreator(h)).To(BeTrue())
		Expect(s.RemoveForceCreator(h)).To(BeFalse())
		s.Tick(0.01)

		Expect(c.calls).To(Equal(0))
		Expect(c.released).To(Equal(1))
		Expect(s.NumForceCreators()).To(Equal(0))
	})

	It("tracks ticks and elapsed time", func() {
		s.Tick(0.25)
		s.Tick(0.5)
		Expect(s.Ticks()).To(Equal(2))
		Expect(s.Time()).To(BeNumerically("~", 0.75, 1e-12))
	})

	It("releases everything on Close", func() {
		c := &countingCreator{}
		s.AddForceCreator(c)
		s.AddBody(newBox(0, 0))

		s.Close()

		Expect(c.released).To(Equal(1))
		Expect(s.NumBodies()).To(Equal(0))
		Expect(s.NumForceCreators()).To(Equal(0))
	})
})
