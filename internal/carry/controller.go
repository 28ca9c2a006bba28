package carry

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
)

// normTolerance bounds the drift allowed in the rotation offset's length.
const normTolerance = 1e-9

type Mode int

const (
	Idle Mode = iota
	Held
	Rotating
)

func (m Mode) String() string {
	switch m {
	case Held:
		return "held"
	case Rotating:
		return "rotating"
	default:
		return "idle"
	}
}

// State is a read-only snapshot of the controller.
type State struct {
	Mode           Mode
	Held           dynamo.EntityID
	HoldDistance   float64
	RotationOffset mgl64.Quat
}

// bodySettings are the body fields overridden while held.
type bodySettings struct {
	useGravity     bool
	linearDamping  float64
	angularDamping float64
	interpolation  dynamo.Interpolation
}

// Controller carries at most one body in front of a viewpoint.
type Controller struct {
	params Params
	view   dynamo.Viewpoint
	scene  dynamo.Scene
	log    *slog.Logger

	held           dynamo.EntityID
	saved          bodySettings
	holdDistance   float64
	rotating       bool
	lastPointer    mgl64.Vec2
	rotationOffset mgl64.Quat
}

// New builds a controller bound to a viewpoint and a scene. A nil logger
// falls back to slog.Default.
func New(view dynamo.Viewpoint, scene dynamo.Scene, params Params, log *slog.Logger) (*Controller, error) {
	if view == nil {
		return nil, dynamo.ErrNoViewpoint
	}
	if scene == nil {
		return nil, dynamo.ErrNoScene
	}
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("carry: %w", err)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Controller{
		params:         params,
		view:           view,
		scene:          scene,
		log:            log.With("component", "carry"),
		holdDistance:   params.HoldDistance,
		rotationOffset: mgl64.QuatIdent(),
	}, nil
}

func (c *Controller) Params() Params { return c.params }

func (c *Controller) Holding() bool { return c.held != dynamo.NoEntity }

func (c *Controller) HeldEntity() dynamo.EntityID { return c.held }

func (c *Controller) Rotating() bool { return c.rotating }

func (c *Controller) HoldDistance() float64 { return c.holdDistance }

func (c *Controller) RotationOffset() mgl64.Quat { return c.rotationOffset }

func (c *Controller) Mode() Mode {
	switch {
	case c.held == dynamo.NoEntity:
		return Idle
	case c.rotating:
		return Rotating
	default:
		return Held
	}
}

func (c *Controller) State() State {
	return State{
		Mode:           c.Mode(),
		Held:           c.held,
		HoldDistance:   c.holdDistance,
		RotationOffset: c.rotationOffset,
	}
}

// Update consumes one frame of input. Run it once per rendered frame,
// before that frame's fixed ticks.
func (c *Controller) Update(f input.Frame) {
	// A handle the scene no longer honors counts as holding nothing.
	ent, _, ok := c.resolve()
	if !ok {
		if f.KeyPressed(c.params.PickupKey) {
			c.TryPickup()
		}
		return
	}

	if f.KeyPressed(c.params.PickupKey) {
		c.Release(false)
		return
	}
	if f.PrimaryPressed {
		c.Release(true)
		return
	}

	if f.Scroll != 0 {
		c.AdjustHoldDistance(f.Scroll)
	}

	if f.KeyPressed(c.params.RotateKey) {
		c.rotating = !c.rotating
		c.lastPointer = f.Pointer
	}
	if c.rotating {
		c.rotate(f.Pointer, f.Dt)
	}

	// The held entity follows the view every frame, rotating or not.
	ent.SetRotation(c.view.Orientation().Mul(c.rotationOffset))
}

// AdjustHoldDistance moves the hold point by scroll*ScrollSpeed, clamped to
// the configured bounds.
func (c *Controller) AdjustHoldDistance(scroll float64) {
	d := c.holdDistance + scroll*c.params.ScrollSpeed
	c.holdDistance = math.Max(c.params.MinHoldDistance, math.Min(c.params.MaxHoldDistance, d))
}

// lookup resolves the held handle to its entity and body without side effects.
func (c *Controller) lookup() (dynamo.Entity, dynamo.Body, bool) {
	if c.held == dynamo.NoEntity {
		return nil, nil, false
	}
	ent, ok := c.scene.Entity(c.held)
	if !ok {
		return nil, nil, false
	}
	body, ok := ent.Body()
	if !ok {
		return nil, nil, false
	}
	return ent, body, true
}

// resolve is lookup that also drops a handle the scene no longer honors.
func (c *Controller) resolve() (dynamo.Entity, dynamo.Body, bool) {
	ent, body, ok := c.lookup()
	if !ok && c.held != dynamo.NoEntity {
		c.log.Debug("held entity vanished", "entity", c.held)
		c.clear()
	}
	return ent, body, ok
}

func (c *Controller) clear() {
	c.held = dynamo.NoEntity
	c.rotating = false
	c.saved = bodySettings{}
}
