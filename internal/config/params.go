package config

import (
	"fmt"
	"maps"
	"slices"

	"github.com/san-kum/carrysim/internal/dynamo"
)

// fields maps dotted yaml paths to the numeric settings sweeps, tuning and
// the menu editor may change.
var fields = map[string]func(c *Config) *float64{
	"carry.pickup_distance":         func(c *Config) *float64 { return &c.Carry.PickupDistance },
	"carry.hold_distance":           func(c *Config) *float64 { return &c.Carry.HoldDistance },
	"carry.min_hold_distance":       func(c *Config) *float64 { return &c.Carry.MinHoldDistance },
	"carry.max_hold_distance":       func(c *Config) *float64 { return &c.Carry.MaxHoldDistance },
	"carry.scroll_speed":            func(c *Config) *float64 { return &c.Carry.ScrollSpeed },
	"carry.pickup_force":            func(c *Config) *float64 { return &c.Carry.PickupForce },
	"carry.throw_force":             func(c *Config) *float64 { return &c.Carry.ThrowForce },
	"carry.rotation_speed":          func(c *Config) *float64 { return &c.Carry.RotationSpeed },
	"carry.held_linear_damping":     func(c *Config) *float64 { return &c.Carry.HeldLinearDamping },
	"carry.held_angular_damping":    func(c *Config) *float64 { return &c.Carry.HeldAngularDamping },
	"carry.release_linear_damping":  func(c *Config) *float64 { return &c.Carry.ReleaseLinearDamping },
	"carry.release_angular_damping": func(c *Config) *float64 { return &c.Carry.ReleaseAngularDamping },
	"sim.frame_dt":                  func(c *Config) *float64 { return &c.Sim.FrameDt },
	"sim.frame_jitter":              func(c *Config) *float64 { return &c.Sim.FrameJitter },
	"sim.fixed_dt":                  func(c *Config) *float64 { return &c.Sim.FixedDt },
	"sim.duration":                  func(c *Config) *float64 { return &c.Sim.Duration },
	"physics.restitution":           func(c *Config) *float64 { return &c.Physics.Restitution },
	"physics.friction":              func(c *Config) *float64 { return &c.Physics.Friction },
	"camera.yaw":                    func(c *Config) *float64 { return &c.Camera.Yaw },
	"camera.pitch":                  func(c *Config) *float64 { return &c.Camera.Pitch },
}

// ParamNames lists the settings accepted by Param and SetParam.
func ParamNames() []string {
	return slices.Sorted(maps.Keys(fields))
}

func (c *Config) Param(name string) (float64, error) {
	f, ok := fields[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidConfig)
	}
	return *f(c), nil
}

// SetParam sets a numeric setting by its dotted yaml path. The result is not
// validated.
func (c *Config) SetParam(name string, v float64) error {
	f, ok := fields[name]
	if !ok {
		return fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrInvalidConfig)
	}
	*f(c) = v
	return nil
}
