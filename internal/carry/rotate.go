package carry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
)

// rotate folds pointer motion since the last sample into the rotation offset.
// Yaw and pitch pivot about the fixed world up and right axes, not the view's.
func (c *Controller) rotate(pointer mgl64.Vec2, dt float64) {
	delta := pointer.Sub(c.lastPointer)
	c.rotationOffset = composeRotation(c.rotationOffset, delta, c.params.RotationSpeed, dt)
	c.lastPointer = pointer
}

// composeRotation returns yaw * pitch * offset for a pointer delta, with
// angles in degrees: yaw = -dx*speed*dt, pitch = dy*speed*dt.
func composeRotation(offset mgl64.Quat, delta mgl64.Vec2, speed, dt float64) mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(-delta[0]*speed*dt), dynamo.WorldUp)
	pitch := mgl64.QuatRotate(mgl64.DegToRad(delta[1]*speed*dt), dynamo.WorldRight)
	return renormalize(yaw.Mul(pitch).Mul(offset))
}

func renormalize(q mgl64.Quat) mgl64.Quat {
	if math.Abs(q.Len()-1) > normTolerance {
		return q.Normalize()
	}
	return q
}
