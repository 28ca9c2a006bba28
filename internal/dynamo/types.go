package dynamo

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// World axes. The controller's manual rotation pivots about these, not the
// camera's local axes.
var (
	WorldUp      = mgl64.Vec3{0, 1, 0}
	WorldRight   = mgl64.Vec3{1, 0, 0}
	WorldForward = mgl64.Vec3{0, 0, -1}
)

// EntityID is a non-owning handle to an entity managed by a Scene.
// The zero value never refers to an entity.
type EntityID uint64

const NoEntity EntityID = 0

func (id EntityID) String() string {
	if id == NoEntity {
		return "none"
	}
	return fmt.Sprintf("e%d", uint64(id))
}

// Interpolation selects how a body's rendered pose relates to its simulated pose.
type Interpolation int

const (
	InterpolateNone Interpolation = iota
	Interpolate
	Extrapolate
)

func (i Interpolation) String() string {
	switch i {
	case Interpolate:
		return "interpolate"
	case Extrapolate:
		return "extrapolate"
	default:
		return "none"
	}
}

// ForceMode selects how AddForce treats its argument.
type ForceMode int

const (
	// Force is mass-dependent and scaled by the tick duration.
	Force ForceMode = iota
	// Acceleration ignores mass and is scaled by the tick duration.
	Acceleration
	// Impulse is an instantaneous, mass-dependent momentum change.
	Impulse
	// VelocityChange is an instantaneous, mass-independent velocity change.
	VelocityChange
)

func (m ForceMode) String() string {
	switch m {
	case Acceleration:
		return "acceleration"
	case Impulse:
		return "impulse"
	case VelocityChange:
		return "velocity_change"
	default:
		return "force"
	}
}

// Viewpoint is the camera pose of the controlling entity.
type Viewpoint interface {
	Position() mgl64.Vec3
	Orientation() mgl64.Quat
	Forward() mgl64.Vec3
	Right() mgl64.Vec3
	Up() mgl64.Vec3
}

// Body is the rigid-body handle of an entity.
type Body interface {
	UseGravity() bool
	SetUseGravity(on bool)
	LinearDamping() float64
	SetLinearDamping(d float64)
	AngularDamping() float64
	SetAngularDamping(d float64)
	Interpolation() Interpolation
	SetInterpolation(mode Interpolation)
	LinearVelocity() mgl64.Vec3
	SetLinearVelocity(v mgl64.Vec3)
	AddForce(f mgl64.Vec3, mode ForceMode)
}

// Entity is a tagged scene object with a world transform.
type Entity interface {
	ID() EntityID
	Tag() string
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	SetRotation(q mgl64.Quat)
	// Body returns the entity's physics handle, if it has one.
	Body() (Body, bool)
}

// Hit is the nearest intersection reported by a ray query.
type Hit struct {
	Entity   EntityID
	Point    mgl64.Vec3
	Distance float64
}

// Scene answers ray queries and resolves entity handles.
type Scene interface {
	Raycast(origin, dir mgl64.Vec3, maxDist float64) (Hit, bool)
	Entity(id EntityID) (Entity, bool)
}
