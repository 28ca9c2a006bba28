package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
)

// ObjectSpec describes an entity to spawn.
type ObjectSpec struct {
	Name     string
	Tag      string
	Position mgl64.Vec3
	Radius   float64
	// Mass > 0 gives the entity a rigid body.
	Mass float64
}

// Entity is a scene object with a sphere collider.
type Entity struct {
	id       dynamo.EntityID
	name     string
	tag      string
	position mgl64.Vec3
	rotation mgl64.Quat
	radius   float64
	body     *Body
}

var _ dynamo.Entity = (*Entity)(nil)

func (e *Entity) ID() dynamo.EntityID      { return e.id }
func (e *Entity) Name() string             { return e.name }
func (e *Entity) Tag() string              { return e.tag }
func (e *Entity) Radius() float64          { return e.radius }
func (e *Entity) Position() mgl64.Vec3     { return e.position }
func (e *Entity) Rotation() mgl64.Quat     { return e.rotation }
func (e *Entity) SetRotation(q mgl64.Quat) { e.rotation = q.Normalize() }

func (e *Entity) SetPosition(p mgl64.Vec3) {
	e.position = p
	if e.body != nil {
		e.body.prevPosition = p
	}
}

func (e *Entity) Body() (dynamo.Body, bool) {
	if e.body == nil {
		return nil, false
	}
	return e.body, true
}

// RigidBody returns the concrete body, or nil for static entities.
func (e *Entity) RigidBody() *Body {
	return e.body
}
