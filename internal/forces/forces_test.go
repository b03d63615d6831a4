package forces

import (
	"math"
	"testing"

	"github.com/san-kum/polysim/internal/body"
	"github.com/san-kum/polysim/internal/geom"
	"github.com/san-kum/polysim/internal/scene"
)

const eps = 1e-9

func box(x, y, mass float64) *body.Body {
	return body.MustNew(geom.Rect(geom.Vec(x, y), 1, 1), mass)
}

func nearVec(a, b geom.Vector) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestGravity(t *testing.T) {
	s := scene.New(100, 100)
	b := box(0, 0, 5)
	s.AddBody(b)
	CreateGravity(s, 10, b)

	s.Tick(0.1)

	if !nearVec(b.Velocity(), geom.Vec(0, -1)) {
		t.Errorf("velocity = %v, want (0, -1)", b.Velocity())
	}
	if !nearVec(b.Centroid(), geom.Vec(0, -0.05)) {
		t.Errorf("centroid = %v, want (0, -0.05)", b.Centroid())
	}
}

func TestGravity_Immovable(t *testing.T) {
	s := scene.New(100, 100)
	b := box(0, 0, body.InfiniteMass)
	s.AddBody(b)
	CreateGravity(s, 10, b)

	for i := 0; i < 5; i++ {
		s.Tick(0.1)
	}

	if b.Velocity() != geom.Zero || !nearVec(b.Centroid(), geom.Zero) {
		t.Errorf("immovable body moved: v=%v c=%v", b.Velocity(), b.Centroid())
	}
}

func TestDrag(t *testing.T) {
	b := box(0, 0, 1)
	b.SetVelocity(geom.Vec(2, -4))
	d := &Drag{Body: b, Gamma: 0.5}

	d.Apply()

	if !nearVec(b.Force(), geom.Vec(-1, 2)) {
		t.Errorf("force = %v, want (-1, 2)", b.Force())
	}
}

func TestNewtonianGravity(t *testing.T) {
	tests := []struct {
		name  string
		dx    float64
		force float64
	}{
		{"far", 10, 2 * 3 * 4 / 100.0},
		{"at cutoff", MinGravityDistance, 2 * 3 * 4 / 25.0},
		{"inside cutoff", 4.9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b1 := box(0, 0, 3)
			b2 := box(tt.dx, 0, 4)
			n := &NewtonianGravity{Body1: b1, Body2: b2, G: 2, MinDistance: MinGravityDistance}

			n.Apply()

			if !nearVec(b1.Force(), geom.Vec(tt.force, 0)) {
				t.Errorf("force on b1 = %v, want (%v, 0)", b1.Force(), tt.force)
			}
			if !nearVec(b2.Force(), geom.Vec(-tt.force, 0)) {
				t.Errorf("force on b2 = %v, want (%v, 0)", b2.Force(), -tt.force)
			}
		})
	}
}

func TestNewtonianGravity_ImmovablePartner(t *testing.T) {
	s := scene.New(1000, 1000)
	star := box(500, 500, body.InfiniteMass)
	sat := box(600, 500, 1)
	s.AddBody(star)
	s.AddBody(sat)
	CreateNewtonianGravity(s, 100, star, sat)

	s.Tick(0.01)

	if !sat.Centroid().IsValid() || !sat.Velocity().IsValid() {
		t.Fatalf("satellite state not finite: c=%v v=%v", sat.Centroid(), sat.Velocity())
	}
	if sat.Velocity() != geom.Zero || !nearVec(sat.Centroid(), geom.Vec(600, 500)) {
		t.Errorf("satellite moved: c=%v v=%v", sat.Centroid(), sat.Velocity())
	}
	if sat.Force() != geom.Zero || star.Force() != geom.Zero {
		t.Errorf("forces not cleared: star=%v sat=%v", star.Force(), sat.Force())
	}
}

func TestSpring(t *testing.T) {
	b1 := box(0, 0, 1)
	b2 := box(3, 4, 1)
	sp := &Spring{Body1: b1, Body2: b2, K: 2}

	sp.Apply()

	// |f| = k*d = 10 along (3,4)/5
	if !nearVec(b1.Force(), geom.Vec(6, 8)) {
		t.Errorf("force on b1 = %v", b1.Force())
	}
	if !nearVec(b2.Force(), geom.Vec(-6, -8)) {
		t.Errorf("force on b2 = %v", b2.Force())
	}
}

func TestReducedMass(t *testing.T) {
	inf := body.InfiniteMass
	tests := []struct {
		m1, m2, want float64
	}{
		{2, 2, 1},
		{3, 6, 2},
		{inf, 4, 4},
		{5, inf, 5},
	}
	for _, tt := range tests {
		if got := ReducedMass(tt.m1, tt.m2); math.Abs(got-tt.want) > eps {
			t.Errorf("ReducedMass(%v, %v) = %v, want %v", tt.m1, tt.m2, got, tt.want)
		}
	}
}

func TestElasticHandler_EqualMasses(t *testing.T) {
	b1 := box(0, 0, 1)
	b2 := box(0.9, 0, 1)
	b1.SetVelocity(geom.Vec(2, 0))

	ElasticHandler(1)(b1, b2, geom.Vec(1, 0))
	b1.Tick(0)
	b2.Tick(0)

	// a perfectly elastic head-on hit between equal masses swaps velocities
	if !nearVec(b1.Velocity(), geom.Zero) || !nearVec(b2.Velocity(), geom.Vec(2, 0)) {
		t.Errorf("velocities = %v, %v", b1.Velocity(), b2.Velocity())
	}
}

func TestElasticHandler_Wall(t *testing.T) {
	ball := box(0, 0, 2)
	wall := box(0.9, 0, body.InfiniteMass)
	ball.SetVelocity(geom.Vec(3, 1))

	ElasticHandler(0.5)(ball, wall, geom.Vec(1, 0))
	ball.Tick(0)
	wall.Tick(0)

	if !nearVec(ball.Velocity(), geom.Vec(-1.5, 1)) {
		t.Errorf("ball velocity = %v, want (-1.5, 1)", ball.Velocity())
	}
	if wall.Velocity() != geom.Zero {
		t.Errorf("wall moved: %v", wall.Velocity())
	}
}

func TestCollisionBinding_Latch(t *testing.T) {
	s := scene.New(100, 100)
	a := box(0, 0, body.InfiniteMass)
	b := box(0.5, 0, body.InfiniteMass)
	s.AddBody(a)
	s.AddBody(b)

	calls := 0
	binding := CreateCollision(s, a, b, func(_, _ *body.Body, axis geom.Vector) {
		calls++
		if !nearVec(axis, geom.Vec(1, 0)) {
			t.Errorf("axis = %v, want (1, 0)", axis)
		}
	})

	for i := 0; i < 5; i++ {
		s.Tick(0.01)
	}
	if calls != 1 {
		t.Fatalf("handler fired %d times over 5 overlapping ticks, want 1", calls)
	}

	b.SetCentroid(geom.Vec(5, 0))
	s.Tick(0.01)
	if binding.Contacting {
		t.Error("latch not reset after separation")
	}

	b.SetCentroid(geom.Vec(0.5, 0))
	for i := 0; i < 3; i++ {
		s.Tick(0.01)
	}
	if calls != 2 {
		t.Errorf("handler fired %d times after re-contact, want 2", calls)
	}
	if binding.Fired != calls {
		t.Errorf("Fired = %d, want %d", binding.Fired, calls)
	}
}

func TestDestructiveCollision(t *testing.T) {
	s := scene.New(100, 100)
	a := box(0, 0, 1)
	b := box(0.5, 0, 1)
	c := box(20, 0, 1)
	s.AddBody(a)
	s.AddBody(b)
	s.AddBody(c)
	CreateDestructiveCollision(s, a, b)
	CreateGravity(s, 1, a)
	CreateGravity(s, 1, c)

	s.Tick(0.01)

	if s.NumBodies() != 1 || s.Body(0) != c {
		t.Fatalf("bodies left = %d", s.NumBodies())
	}
	if s.NumForceCreators() != 1 {
		t.Errorf("force creators = %d, want 1", s.NumForceCreators())
	}
}

func TestPhysicsCollision_Bounce(t *testing.T) {
	s := scene.New(100, 100)
	ball := box(0, 2, 1)
	floor := body.MustNew(geom.Rect(geom.Vec(0, 0), 10, 2), body.InfiniteMass)
	ball.SetVelocity(geom.Vec(0, -10))
	s.AddBody(ball)
	s.AddBody(floor)
	CreatePhysicsCollision(s, 1, ball, floor)

	for i := 0; i < 20 && ball.Velocity().Y < 0; i++ {
		s.Tick(0.01)
	}

	if math.Abs(ball.Velocity().Y-10) > eps {
		t.Errorf("rebound velocity = %v, want 10", ball.Velocity().Y)
	}
}

func TestFreeOnExit(t *testing.T) {
	s := scene.New(100, 100)
	b := box(2, 0, 1)
	b.SetVelocity(geom.Vec(-10, 0))
	s.AddBody(b)
	CreateFreeOnExit(s, b)

	for ticks := 0; s.NumBodies() > 0 && ticks < 100; ticks++ {
		s.Tick(0.05)
	}

	if s.NumBodies() != 0 {
		t.Fatal("body never removed")
	}
	// flagged only once the right edge crossed x=0, then moved one more step
	if b.Centroid().X >= -0.5 {
		t.Errorf("removed too early, centroid %v", b.Centroid())
	}
	if s.NumForceCreators() != 0 {
		t.Error("free-on-exit registration outlived its body")
	}
}

func TestKeepOnScreen(t *testing.T) {
	tests := []struct {
		name   string
		center geom.Vector
		want   geom.Vector
	}{
		{"inside", geom.Vec(5, 5), geom.Vec(5, 5)},
		{"left", geom.Vec(-2, 5), geom.Vec(0.5, 5)},
		{"below", geom.Vec(5, -3), geom.Vec(5, 0.5)},
		{"below left", geom.Vec(-1, -1), geom.Vec(0.5, 0.5)},
		{"right", geom.Vec(12, 5), geom.Vec(10.5, 5)},
		{"above", geom.Vec(5, 14), geom.Vec(5, 10.5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := box(tt.center.X, tt.center.Y, 1)
			k := &KeepOnScreen{Body: b, MaxX: 10, MaxY: 10}

			k.Apply()

			if !nearVec(b.Centroid(), tt.want) {
				t.Errorf("centroid = %v, want %v", b.Centroid(), tt.want)
			}
		})
	}
}

func TestKeepOnScreen_Modes(t *testing.T) {
	// first vertex of geom.Rect is the lower-left corner, which is still
	// on screen when only the right edge overshoots
	first := box(9.8, 5, 1)
	(&KeepOnScreen{Body: first, MaxX: 10, MaxY: 10}).Apply()
	if !nearVec(first.Centroid(), geom.Vec(9.8, 5)) {
		t.Errorf("first-vertex clamp moved body to %v", first.Centroid())
	}

	bounded := box(9.8, 5, 1)
	(&KeepOnScreen{Body: bounded, MaxX: 10, MaxY: 10, Mode: ClampBounds}).Apply()
	if !nearVec(bounded.Centroid(), geom.Vec(9.5, 5)) {
		t.Errorf("bounds clamp centroid = %v, want (9.5, 5)", bounded.Centroid())
	}
}
