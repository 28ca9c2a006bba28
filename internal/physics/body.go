package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
)

// Body is a rigid body attached to an entity.
type Body struct {
	entity          *Entity
	mass            float64
	velocity        mgl64.Vec3
	angularVelocity mgl64.Vec3
	prevPosition    mgl64.Vec3
	useGravity      bool
	linearDamping   float64
	angularDamping  float64
	interpolation   dynamo.Interpolation
	// acc accumulates Force and Acceleration contributions until the next step.
	acc mgl64.Vec3
}

var _ dynamo.Body = (*Body)(nil)

func newBody(e *Entity, mass float64) *Body {
	return &Body{
		entity:         e,
		mass:           mass,
		prevPosition:   e.position,
		useGravity:     true,
		angularDamping: DefaultAngularDamping,
	}
}

func (b *Body) Mass() float64 { return b.mass }

func (b *Body) UseGravity() bool      { return b.useGravity }
func (b *Body) SetUseGravity(on bool) { b.useGravity = on }

func (b *Body) LinearDamping() float64      { return b.linearDamping }
func (b *Body) SetLinearDamping(d float64)  { b.linearDamping = d }
func (b *Body) AngularDamping() float64     { return b.angularDamping }
func (b *Body) SetAngularDamping(d float64) { b.angularDamping = d }

func (b *Body) Interpolation() dynamo.Interpolation        { return b.interpolation }
func (b *Body) SetInterpolation(mode dynamo.Interpolation) { b.interpolation = mode }

func (b *Body) LinearVelocity() mgl64.Vec3      { return b.velocity }
func (b *Body) SetLinearVelocity(v mgl64.Vec3)  { b.velocity = v }
func (b *Body) AngularVelocity() mgl64.Vec3     { return b.angularVelocity }
func (b *Body) SetAngularVelocity(w mgl64.Vec3) { b.angularVelocity = w }

func (b *Body) AddForce(f mgl64.Vec3, mode dynamo.ForceMode) {
	switch mode {
	case dynamo.Force:
		b.acc = b.acc.Add(f.Mul(1 / b.mass))
	case dynamo.Acceleration:
		b.acc = b.acc.Add(f)
	case dynamo.Impulse:
		b.velocity = b.velocity.Add(f.Mul(1 / b.mass))
	case dynamo.VelocityChange:
		b.velocity = b.velocity.Add(f)
	}
}
