// Package scene owns a set of bodies and the force creators that act on
// them, and advances them one frame at a time.
//
// Each call to [Scene.Tick] runs three phases in order:
//
//  1. Every force creator registered before the tick began is applied, in
//     registration order. Creators registered during this phase first run
//     on the next tick.
//  2. Registrations that depend on a body flagged for removal (or that
//     were removed explicitly) are dropped and released.
//  3. Every body is integrated; bodies flagged for removal are destroyed
//     and swept out of the scene.
//
// Removal is always deferred: [body.Body.Remove] only sets a flag, so force
// creators that run later in the same tick can still read the body.
//
// # Thread Safety
//
// A Scene is NOT safe for concurrent use. One goroutine drives Tick and
// performs all mutation.
package scene
