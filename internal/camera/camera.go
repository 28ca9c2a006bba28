// Package camera implements a first-person yaw/pitch camera that serves as
// the carry controller's viewpoint.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
)

const maxPitch = 89.0

// Camera is a first-person camera. Yaw and pitch are in degrees; yaw turns
// about world up, pitch about the camera's right axis.
type Camera struct {
	position mgl64.Vec3
	yaw      float64
	pitch    float64
	rotation mgl64.Quat
}

var _ dynamo.Viewpoint = (*Camera)(nil)

func New(position mgl64.Vec3, yaw, pitch float64) *Camera {
	c := &Camera{position: position, yaw: yaw}
	c.pitch = clampPitch(pitch)
	c.updateRotation()
	return c
}

func (c *Camera) updateRotation() {
	yawQ := mgl64.QuatRotate(mgl64.DegToRad(c.yaw), dynamo.WorldUp)
	pitchQ := mgl64.QuatRotate(mgl64.DegToRad(c.pitch), dynamo.WorldRight)
	c.rotation = yawQ.Mul(pitchQ).Normalize()
}

func clampPitch(p float64) float64 {
	return math.Max(-maxPitch, math.Min(maxPitch, p))
}

func (c *Camera) Position() mgl64.Vec3    { return c.position }
func (c *Camera) Orientation() mgl64.Quat { return c.rotation }
func (c *Camera) Yaw() float64            { return c.yaw }
func (c *Camera) Pitch() float64          { return c.pitch }

// Forward is -Z in camera space.
func (c *Camera) Forward() mgl64.Vec3 {
	return c.rotation.Rotate(mgl64.Vec3{0, 0, -1})
}

func (c *Camera) Right() mgl64.Vec3 {
	return c.rotation.Rotate(mgl64.Vec3{1, 0, 0})
}

func (c *Camera) Up() mgl64.Vec3 {
	return c.rotation.Rotate(mgl64.Vec3{0, 1, 0})
}

func (c *Camera) SetPosition(p mgl64.Vec3) {
	c.position = p
}

// Look turns the camera by the given yaw and pitch deltas in degrees.
// Pitch is clamped short of straight up and down.
func (c *Camera) Look(dYaw, dPitch float64) {
	c.yaw = math.Mod(c.yaw+dYaw, 360)
	c.pitch = clampPitch(c.pitch + dPitch)
	c.updateRotation()
}

// Move walks the camera on the horizontal plane relative to its heading.
func (c *Camera) Move(forward, strafe float64) {
	heading := mgl64.QuatRotate(mgl64.DegToRad(c.yaw), dynamo.WorldUp)
	fwd := heading.Rotate(mgl64.Vec3{0, 0, -1})
	right := heading.Rotate(mgl64.Vec3{1, 0, 0})
	c.position = c.position.Add(fwd.Mul(forward)).Add(right.Mul(strafe))
}
