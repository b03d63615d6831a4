// Package forces provides the standard force creators for a scene.
//
// Every Create function builds a typed creator, registers it with the
// scene bound to the bodies it reads, and returns it. The registration is
// dropped automatically once any of those bodies is removed.
//
//	s := scene.New(800, 600)
//	forces.CreateGravity(s, 9.8, ball)
//	forces.CreatePhysicsCollision(s, 1.0, ball, floor)
//	s.Tick(dt)
package forces
