package carry

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
)

const MoveableTag = "Moveable"

// ReleasePolicy selects what a released body's damping and gravity return to.
type ReleasePolicy int

const (
	// ReleaseReset turns gravity on and applies the fixed release damping.
	ReleaseReset ReleasePolicy = iota
	// ReleaseRestore puts back the values the body had at pickup.
	ReleaseRestore
)

func (p ReleasePolicy) String() string {
	if p == ReleaseRestore {
		return "restore"
	}
	return "reset"
}

func ParseReleasePolicy(s string) (ReleasePolicy, error) {
	switch s {
	case "", "reset":
		return ReleaseReset, nil
	case "restore":
		return ReleaseRestore, nil
	}
	return ReleaseReset, fmt.Errorf("unknown release policy %q", s)
}

// Params holds every tunable of the mechanic. Distances are in world units,
// RotationSpeed in degrees per pointer unit per second.
type Params struct {
	PickupDistance  float64
	HoldDistance    float64
	MinHoldDistance float64
	MaxHoldDistance float64
	ScrollSpeed     float64
	PickupKey       input.Key
	RotateKey       input.Key
	PickupForce     float64
	ThrowForce      float64
	RotationSpeed   float64
	// HoldOffset is (right, up, forward) relative to the viewpoint.
	HoldOffset mgl64.Vec3
	Tag        string

	HeldLinearDamping     float64
	HeldAngularDamping    float64
	ReleaseLinearDamping  float64
	ReleaseAngularDamping float64
	ReleasePolicy         ReleasePolicy
}

func DefaultParams() Params {
	return Params{
		PickupDistance:  3.0,
		HoldDistance:    2.0,
		MinHoldDistance: 1.0,
		MaxHoldDistance: 5.0,
		ScrollSpeed:     1.0,
		PickupKey:       input.KeyE,
		RotateKey:       input.KeyR,
		PickupForce:     150,
		ThrowForce:      10,
		RotationSpeed:   100,
		HoldOffset:      mgl64.Vec3{0.6, -0.4, 0.2},
		Tag:             MoveableTag,

		HeldLinearDamping:     10,
		HeldAngularDamping:    5,
		ReleaseLinearDamping:  0,
		ReleaseAngularDamping: 0.05,
		ReleasePolicy:         ReleaseReset,
	}
}

func (p Params) Validate() error {
	if name, ok := p.nonFinite(); ok {
		return invalid("%s must be finite", name)
	}
	switch {
	case p.PickupDistance <= 0:
		return invalid("pickup distance must be positive, got %.3f", p.PickupDistance)
	case p.MinHoldDistance < 0:
		return invalid("min hold distance must be non-negative, got %.3f", p.MinHoldDistance)
	case p.MinHoldDistance > p.MaxHoldDistance:
		return invalid("min hold distance %.3f exceeds max %.3f", p.MinHoldDistance, p.MaxHoldDistance)
	case p.HoldDistance < p.MinHoldDistance || p.HoldDistance > p.MaxHoldDistance:
		return invalid("hold distance %.3f outside [%.3f, %.3f]", p.HoldDistance, p.MinHoldDistance, p.MaxHoldDistance)
	case p.PickupForce <= 0:
		return invalid("pickup force must be positive, got %.3f", p.PickupForce)
	case p.ScrollSpeed < 0:
		return invalid("scroll speed must be non-negative, got %.3f", p.ScrollSpeed)
	case p.ThrowForce < 0:
		return invalid("throw force must be non-negative, got %.3f", p.ThrowForce)
	case p.RotationSpeed < 0:
		return invalid("rotation speed must be non-negative, got %.3f", p.RotationSpeed)
	case p.PickupKey == input.KeyNone || p.RotateKey == input.KeyNone:
		return invalid("pickup and rotate keys must be bound")
	case p.PickupKey == p.RotateKey:
		return invalid("pickup and rotate keys are both %v", p.PickupKey)
	case p.Tag == "":
		return invalid("moveable tag must not be empty")
	case p.HeldLinearDamping < 0 || p.HeldAngularDamping < 0 || p.ReleaseLinearDamping < 0 || p.ReleaseAngularDamping < 0:
		return invalid("damping coefficients must be non-negative")
	}
	return nil
}

// nonFinite reports the first float field holding NaN or an infinity.
func (p Params) nonFinite() (string, bool) {
	fields := []struct {
		name string
		v    float64
	}{
		{"pickup distance", p.PickupDistance},
		{"hold distance", p.HoldDistance},
		{"min hold distance", p.MinHoldDistance},
		{"max hold distance", p.MaxHoldDistance},
		{"scroll speed", p.ScrollSpeed},
		{"pickup force", p.PickupForce},
		{"throw force", p.ThrowForce},
		{"rotation speed", p.RotationSpeed},
		{"hold offset x", p.HoldOffset[0]},
		{"hold offset y", p.HoldOffset[1]},
		{"hold offset z", p.HoldOffset[2]},
		{"held linear damping", p.HeldLinearDamping},
		{"held angular damping", p.HeldAngularDamping},
		{"release linear damping", p.ReleaseLinearDamping},
		{"release angular damping", p.ReleaseAngularDamping},
	}
	for _, f := range fields {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return f.name, true
		}
	}
	return "", false
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", dynamo.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
