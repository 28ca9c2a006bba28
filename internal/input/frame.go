// Package input carries per-frame input samples from a device or a script to
// the carry controller.
package input

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Frame is the raw input sampled for one rendered frame.
type Frame struct {
	Time float64
	Dt   float64

	// Pressed holds keys that went down during this frame.
	Pressed []Key
	// PrimaryPressed is true on the frame the primary pointer button went down.
	PrimaryPressed bool
	Scroll         float64
	// Pointer is the absolute pointer position in screen space.
	Pointer mgl64.Vec2
	// Look is a camera yaw/pitch delta in degrees, consumed by the camera rig.
	Look mgl64.Vec2
}

func (f Frame) KeyPressed(k Key) bool {
	return slices.Contains(f.Pressed, k)
}

// Source produces one Frame per rendered frame.
type Source interface {
	Next(t, dt float64) Frame
}

// Idle is a Source that never produces input.
type Idle struct{}

func (Idle) Next(t, dt float64) Frame {
	return Frame{Time: t, Dt: dt}
}
