package carry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
)

// Command is the velocity command issued to the held body on one tick.
type Command struct {
	Entity   dynamo.EntityID
	Target   mgl64.Vec3
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	// Error is the distance from the body to its hold target.
	Error float64
}

// HoldTarget is the world point the held body is driven toward.
func (c *Controller) HoldTarget() mgl64.Vec3 {
	fwd, right, up := c.view.Forward(), c.view.Right(), c.view.Up()
	off := c.params.HoldOffset
	return c.view.Position().
		Add(fwd.Mul(c.holdDistance)).
		Add(right.Mul(off[0])).
		Add(up.Mul(off[1])).
		Add(fwd.Mul(off[2]))
}

// FixedUpdate drives the held body toward its hold target with a velocity
// proportional to the position error. Damping set at pickup does the rest.
// It reports false when nothing is held.
func (c *Controller) FixedUpdate(dt float64) (Command, bool) {
	ent, body, ok := c.resolve()
	if !ok {
		return Command{}, false
	}

	target := c.HoldTarget()
	pos := ent.Position()
	dir := target.Sub(pos)
	vel := dir.Mul(c.params.PickupForce * dt)
	body.SetLinearVelocity(vel)

	return Command{
		Entity:   c.held,
		Target:   target,
		Position: pos,
		Velocity: vel,
		Error:    dir.Len(),
	}, true
}
