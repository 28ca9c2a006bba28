// Package carry implements the first-person pick-up-and-carry mechanic.
//
// A [Controller] is driven at two cadences by the host loop:
//
//	ctrl.Update(frame)              // once per rendered frame: input and state
//	cmd, ok := ctrl.FixedUpdate(dt) // once per fixed tick: hold the body in place
//
// Update must complete before the fixed ticks that follow it in the same
// frame; the controller holds no locks and expects a single goroutine.
//
// # States
//
//   - Idle: nothing held. The pickup key raycasts for a Moveable body.
//   - Held: a body is carried. Pickup key drops it, primary button throws it,
//     scroll changes the hold distance, the rotate key enters Rotating.
//   - Rotating: as Held, and pointer motion accumulates into the rotation offset.
//
// The carried entity is referenced by [dynamo.EntityID]. If the scene
// destroys it, the controller notices on the next Update or FixedUpdate and
// returns to Idle.
package carry
