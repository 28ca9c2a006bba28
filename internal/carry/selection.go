package carry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
)

// TryPickup raycasts along the view and starts carrying the first hit if it
// is tagged Moveable and has a body. It reports whether a pickup happened.
// Misses, untagged hits and bodiless hits leave the controller untouched, as
// does calling it while already holding something.
func (c *Controller) TryPickup() bool {
	if c.held != dynamo.NoEntity {
		return false
	}

	hit, ok := c.scene.Raycast(c.view.Position(), c.view.Forward(), c.params.PickupDistance)
	if !ok {
		return false
	}
	ent, ok := c.scene.Entity(hit.Entity)
	if !ok || ent.Tag() != c.params.Tag {
		return false
	}

	body, ok := ent.Body()
	if !ok {
		c.log.Debug("pickup target has no body", "entity", hit.Entity)
		return false
	}

	c.saved = bodySettings{
		useGravity:     body.UseGravity(),
		linearDamping:  body.LinearDamping(),
		angularDamping: body.AngularDamping(),
		interpolation:  body.Interpolation(),
	}
	body.SetUseGravity(false)
	body.SetLinearDamping(c.params.HeldLinearDamping)
	body.SetAngularDamping(c.params.HeldAngularDamping)
	body.SetInterpolation(dynamo.Interpolate)

	c.held = ent.ID()
	c.holdDistance = c.params.HoldDistance
	c.rotationOffset = mgl64.QuatIdent()
	c.rotating = false

	c.log.Debug("picked up", "entity", c.held, "distance", hit.Distance)
	return true
}

// Release lets go of the held body, throwing it along the view when throw is
// set. Held state is always cleared, even if the body is already gone.
func (c *Controller) Release(throw bool) {
	_, body, ok := c.lookup()
	if ok {
		switch c.params.ReleasePolicy {
		case ReleaseRestore:
			body.SetUseGravity(c.saved.useGravity)
			body.SetLinearDamping(c.saved.linearDamping)
			body.SetAngularDamping(c.saved.angularDamping)
		default:
			body.SetUseGravity(true)
			body.SetLinearDamping(c.params.ReleaseLinearDamping)
			body.SetAngularDamping(c.params.ReleaseAngularDamping)
		}
		body.SetInterpolation(c.saved.interpolation)

		if throw {
			body.AddForce(c.view.Forward().Mul(c.params.ThrowForce), dynamo.VelocityChange)
		}
	}

	if c.held != dynamo.NoEntity {
		c.log.Debug("released", "entity", c.held, "throw", throw)
	}
	c.clear()
}
