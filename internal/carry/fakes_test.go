package carry

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
)

type fakeView struct {
	pos mgl64.Vec3
	rot mgl64.Quat
}

func newFakeView() *fakeView {
	return &fakeView{pos: mgl64.Vec3{0, 1.6, 0}, rot: mgl64.QuatIdent()}
}

func (v *fakeView) Position() mgl64.Vec3    { return v.pos }
func (v *fakeView) Orientation() mgl64.Quat { return v.rot }
func (v *fakeView) Forward() mgl64.Vec3     { return v.rot.Rotate(mgl64.Vec3{0, 0, -1}) }
func (v *fakeView) Right() mgl64.Vec3       { return v.rot.Rotate(mgl64.Vec3{1, 0, 0}) }
func (v *fakeView) Up() mgl64.Vec3          { return v.rot.Rotate(mgl64.Vec3{0, 1, 0}) }

type appliedForce struct {
	f    mgl64.Vec3
	mode dynamo.ForceMode
}

type fakeBody struct {
	gravity bool
	linear  float64
	angular float64
	interp  dynamo.Interpolation
	vel     mgl64.Vec3
	forces  []appliedForce
}

func newFakeBody() *fakeBody {
	return &fakeBody{gravity: true, angular: 0.05}
}

func (b *fakeBody) UseGravity() bool                          { return b.gravity }
func (b *fakeBody) SetUseGravity(on bool)                     { b.gravity = on }
func (b *fakeBody) LinearDamping() float64                    { return b.linear }
func (b *fakeBody) SetLinearDamping(d float64)                { b.linear = d }
func (b *fakeBody) AngularDamping() float64                   { return b.angular }
func (b *fakeBody) SetAngularDamping(d float64)               { b.angular = d }
func (b *fakeBody) Interpolation() dynamo.Interpolation       { return b.interp }
func (b *fakeBody) SetInterpolation(m dynamo.Interpolation)   { b.interp = m }
func (b *fakeBody) LinearVelocity() mgl64.Vec3                { return b.vel }
func (b *fakeBody) SetLinearVelocity(v mgl64.Vec3)            { b.vel = v }
func (b *fakeBody) AddForce(f mgl64.Vec3, m dynamo.ForceMode) { b.forces = append(b.forces, appliedForce{f, m}) }

type fakeEntity struct {
	id   dynamo.EntityID
	tag  string
	pos  mgl64.Vec3
	rot  mgl64.Quat
	body *fakeBody
}

func (e *fakeEntity) ID() dynamo.EntityID      { return e.id }
func (e *fakeEntity) Tag() string              { return e.tag }
func (e *fakeEntity) Position() mgl64.Vec3     { return e.pos }
func (e *fakeEntity) Rotation() mgl64.Quat     { return e.rot }
func (e *fakeEntity) SetRotation(q mgl64.Quat) { e.rot = q }

func (e *fakeEntity) Body() (dynamo.Body, bool) {
	if e.body == nil {
		return nil, false
	}
	return e.body, true
}

// fakeScene returns a single scripted hit for any ray that reaches it.
type fakeScene struct {
	entities map[dynamo.EntityID]*fakeEntity
	hit      *dynamo.Hit
	rays     int
}

func newFakeScene() *fakeScene {
	return &fakeScene{entities: make(map[dynamo.EntityID]*fakeEntity)}
}

func (s *fakeScene) add(e *fakeEntity) *fakeEntity {
	s.entities[e.id] = e
	return e
}

func (s *fakeScene) aim(id dynamo.EntityID, dist float64) {
	s.hit = &dynamo.Hit{Entity: id, Distance: dist}
}

func (s *fakeScene) Raycast(origin, dir mgl64.Vec3, maxDist float64) (dynamo.Hit, bool) {
	s.rays++
	if s.hit == nil || s.hit.Distance > maxDist {
		return dynamo.Hit{}, false
	}
	return *s.hit, true
}

func (s *fakeScene) Entity(id dynamo.EntityID) (dynamo.Entity, bool) {
	e, ok := s.entities[id]
	if !ok {
		return nil, false
	}
	return e, true
}
