// Package dynamo provides the core primitives shared by the carry mechanic,
// the headless physics world and the frame scheduler.
//
// The package defines the collaborator contracts the carry controller
// consumes, so that any physics engine or camera can drive it:
//
//   - [Viewpoint]: camera pose used for raycasts and hold placement
//   - [Scene]: ray queries and handle lookup
//   - [Entity]: a tagged object with a transform
//   - [Body]: the rigid-body handle (gravity, damping, velocity, forces)
//
// # Example
//
//	world, _ := physics.NewWorld(physics.DefaultConfig())
//	cam := camera.New(mgl64.Vec3{0, 1.6, 0}, 0, 0)
//	ctrl, _ := carry.New(cam, world, carry.DefaultParams(), nil)
//	ctrl.Update(frame)   // once per rendered frame
//	ctrl.FixedUpdate(dt) // once per fixed tick
//
// # Handles
//
// [EntityID] values are non-owning. The scene owns every entity and may
// destroy one at any time; lookups through a stale ID report not found.
package dynamo
