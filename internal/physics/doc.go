// Package physics is a small headless rigid-body world that implements the
// [dynamo.Scene], [dynamo.Entity] and [dynamo.Body] contracts.
//
// Every entity carries a sphere collider. Entities spawned with a mass get a
// rigid body; the rest are static colliders that still answer ray queries.
//
//   - [World.Step]: gravity, damping, integration, ground and sphere contacts
//   - [World.Raycast]: nearest ray-sphere hit
//   - [World.RenderPosition]: interpolated pose for bodies that request it
//
// Entity IDs are never reused, so a removed entity's handle stays invalid.
package physics
