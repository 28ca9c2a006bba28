package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/integrators"
)

const (
	DefaultAngularDamping = 0.05
	DefaultRadius         = 0.25
)

type Config struct {
	Gravity     mgl64.Vec3
	GroundY     float64
	Restitution float64
	// Friction is the horizontal velocity fraction lost per second on the ground.
	Friction   float64
	Integrator string
}

func DefaultConfig() Config {
	return Config{
		Gravity:     mgl64.Vec3{0, -9.81, 0},
		GroundY:     0,
		Restitution: 0.3,
		Friction:    4.0,
		Integrator:  "symplectic",
	}
}

// World owns every entity and steps their bodies at a fixed rate.
type World struct {
	cfg        Config
	integrator integrators.Integrator
	entities   map[dynamo.EntityID]*Entity
	order      []dynamo.EntityID
	nextID     dynamo.EntityID
	time       float64
	lastDt     float64
}

var _ dynamo.Scene = (*World)(nil)

func NewWorld(cfg Config) (*World, error) {
	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dynamo.ErrInvalidConfig, err)
	}
	if cfg.Restitution < 0 || cfg.Restitution > 1 {
		return nil, fmt.Errorf("%w: restitution %.3f outside [0, 1]", dynamo.ErrInvalidConfig, cfg.Restitution)
	}
	return &World{
		cfg:        cfg,
		integrator: integ,
		entities:   make(map[dynamo.EntityID]*Entity),
	}, nil
}

func (w *World) Time() float64 { return w.time }

// Spawn adds an entity and returns its handle.
func (w *World) Spawn(spec ObjectSpec) dynamo.EntityID {
	w.nextID++
	radius := spec.Radius
	if radius <= 0 {
		radius = DefaultRadius
	}
	e := &Entity{
		id:       w.nextID,
		name:     spec.Name,
		tag:      spec.Tag,
		position: spec.Position,
		rotation: mgl64.QuatIdent(),
		radius:   radius,
	}
	if spec.Mass > 0 {
		e.body = newBody(e, spec.Mass)
	}
	w.entities[e.id] = e
	w.order = append(w.order, e.id)
	return e.id
}

// Remove destroys an entity. Handles to it stop resolving.
func (w *World) Remove(id dynamo.EntityID) bool {
	if _, ok := w.entities[id]; !ok {
		return false
	}
	delete(w.entities, id)
	for i, oid := range w.order {
		if oid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	return true
}

func (w *World) Entity(id dynamo.EntityID) (dynamo.Entity, bool) {
	e, ok := w.entities[id]
	if !ok {
		return nil, false
	}
	return e, true
}

// Get returns the concrete entity behind a handle.
func (w *World) Get(id dynamo.EntityID) (*Entity, bool) {
	e, ok := w.entities[id]
	return e, ok
}

// Entities returns all live entities in spawn order.
func (w *World) Entities() []*Entity {
	out := make([]*Entity, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.entities[id])
	}
	return out
}

// Raycast returns the nearest sphere hit within maxDist. Colliders that
// contain the origin are ignored.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64) (dynamo.Hit, bool) {
	if dir.Len() == 0 || maxDist <= 0 {
		return dynamo.Hit{}, false
	}
	d := dir.Normalize()

	best := dynamo.Hit{Distance: math.Inf(1)}
	found := false
	for _, id := range w.order {
		e := w.entities[id]
		oc := origin.Sub(e.position)
		b := oc.Dot(d)
		c := oc.Dot(oc) - e.radius*e.radius
		if c <= 0 {
			continue
		}
		disc := b*b - c
		if disc < 0 {
			continue
		}
		t := -b - math.Sqrt(disc)
		if t < 0 || t > maxDist || t >= best.Distance {
			continue
		}
		best = dynamo.Hit{Entity: id, Point: origin.Add(d.Mul(t)), Distance: t}
		found = true
	}
	return best, found
}

// Step advances every body by dt.
func (w *World) Step(dt float64) {
	for _, id := range w.order {
		e := w.entities[id]
		if e.body != nil {
			w.integrate(e, dt)
		}
	}
	w.resolveContacts()
	w.time += dt
	w.lastDt = dt
}

func (w *World) integrate(e *Entity, dt float64) {
	b := e.body
	b.prevPosition = e.position

	acc := b.acc
	if b.useGravity {
		acc = acc.Add(w.cfg.Gravity)
	}
	b.acc = mgl64.Vec3{}

	vel := b.velocity.Mul(1 / (1 + dt*b.linearDamping))
	e.position, b.velocity = w.integrator.Integrate(e.position, vel, acc, dt)

	b.angularVelocity = b.angularVelocity.Mul(1 / (1 + dt*b.angularDamping))
	if b.angularVelocity.Len() > 0 {
		spin := mgl64.Quat{W: 0, V: b.angularVelocity}.Mul(e.rotation).Scale(0.5 * dt)
		e.rotation = e.rotation.Add(spin).Normalize()
	}

	floor := w.cfg.GroundY + e.radius
	if e.position[1] < floor {
		e.position[1] = floor
		if b.velocity[1] < 0 {
			b.velocity[1] = -b.velocity[1] * w.cfg.Restitution
		}
		keep := math.Max(0, 1-w.cfg.Friction*dt)
		b.velocity[0] *= keep
		b.velocity[2] *= keep
	}
}

// RenderPosition returns the pose to draw for an entity at fraction alpha of
// the current tick. Only bodies with interpolation enabled are smoothed.
func (w *World) RenderPosition(id dynamo.EntityID, alpha float64) (mgl64.Vec3, bool) {
	e, ok := w.entities[id]
	if !ok {
		return mgl64.Vec3{}, false
	}
	if e.body == nil {
		return e.position, true
	}
	switch e.body.interpolation {
	case dynamo.Interpolate:
		return e.body.prevPosition.Add(e.position.Sub(e.body.prevPosition).Mul(alpha)), true
	case dynamo.Extrapolate:
		return e.position.Add(e.body.velocity.Mul(alpha * w.lastDt)), true
	default:
		return e.position, true
	}
}
