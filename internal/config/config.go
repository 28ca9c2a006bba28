package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
	"github.com/san-kum/carrysim/internal/integrators"
	"github.com/san-kum/carrysim/internal/physics"
	"github.com/san-kum/carrysim/internal/sim"
)

const (
	DefaultFrameDt   = 1.0 / 60
	DefaultFixedDt   = 0.02
	DefaultDuration  = 6.0
	DefaultEyeHeight = 1.6
	DefaultPitch     = -25.0
	DefaultMoveSpeed = 3.0
	DefaultLookSpeed = 90.0
)

type Config struct {
	Carry   CarryConfig    `yaml:"carry"`
	Sim     SimConfig      `yaml:"sim"`
	Physics PhysicsConfig  `yaml:"physics"`
	Camera  CameraConfig   `yaml:"camera"`
	Scene   []ObjectConfig `yaml:"scene"`
	Script  []input.Event  `yaml:"script"`
	Logging LoggingConfig  `yaml:"logging"`
}

type CarryConfig struct {
	PickupDistance  float64    `yaml:"pickup_distance"`
	HoldDistance    float64    `yaml:"hold_distance"`
	MinHoldDistance float64    `yaml:"min_hold_distance"`
	MaxHoldDistance float64    `yaml:"max_hold_distance"`
	ScrollSpeed     float64    `yaml:"scroll_speed"`
	PickupKey       string     `yaml:"pickup_key"`
	RotateKey       string     `yaml:"rotate_key"`
	PickupForce     float64    `yaml:"pickup_force"`
	ThrowForce      float64    `yaml:"throw_force"`
	RotationSpeed   float64    `yaml:"rotation_speed"`
	HoldOffset      mgl64.Vec3 `yaml:"hold_offset,flow"`
	Tag             string     `yaml:"tag"`

	HeldLinearDamping     float64 `yaml:"held_linear_damping"`
	HeldAngularDamping    float64 `yaml:"held_angular_damping"`
	ReleaseLinearDamping  float64 `yaml:"release_linear_damping"`
	ReleaseAngularDamping float64 `yaml:"release_angular_damping"`
	ReleasePolicy         string  `yaml:"release_policy"`
}

type SimConfig struct {
	FrameDt     float64 `yaml:"frame_dt"`
	FrameJitter float64 `yaml:"frame_jitter"`
	FixedDt     float64 `yaml:"fixed_dt"`
	Duration    float64 `yaml:"duration"`
	MaxTicks    int     `yaml:"max_ticks"`
	Seed        int64   `yaml:"seed"`
}

type PhysicsConfig struct {
	Gravity     mgl64.Vec3 `yaml:"gravity,flow"`
	GroundY     float64    `yaml:"ground_y"`
	Restitution float64    `yaml:"restitution"`
	Friction    float64    `yaml:"friction"`
	Integrator  string     `yaml:"integrator"`
}

type CameraConfig struct {
	Position mgl64.Vec3 `yaml:"position,flow"`
	Yaw      float64    `yaml:"yaw"`
	Pitch    float64    `yaml:"pitch"`
	// MoveSpeed and LookSpeed drive keyboard movement in live mode.
	MoveSpeed float64 `yaml:"move_speed"`
	LookSpeed float64 `yaml:"look_speed"`
}

// ObjectConfig is one scene entity. Mass 0 makes it a static collider.
type ObjectConfig struct {
	Name     string     `yaml:"name"`
	Tag      string     `yaml:"tag,omitempty"`
	Position mgl64.Vec3 `yaml:"position,flow"`
	Radius   float64    `yaml:"radius,omitempty"`
	Mass     float64    `yaml:"mass,omitempty"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func DefaultConfig() *Config {
	p := carry.DefaultParams()
	ph := physics.DefaultConfig()
	return &Config{
		Carry: CarryConfig{
			PickupDistance:  p.PickupDistance,
			HoldDistance:    p.HoldDistance,
			MinHoldDistance: p.MinHoldDistance,
			MaxHoldDistance: p.MaxHoldDistance,
			ScrollSpeed:     p.ScrollSpeed,
			PickupKey:       p.PickupKey.String(),
			RotateKey:       p.RotateKey.String(),
			PickupForce:     p.PickupForce,
			ThrowForce:      p.ThrowForce,
			RotationSpeed:   p.RotationSpeed,
			HoldOffset:      p.HoldOffset,
			Tag:             p.Tag,

			HeldLinearDamping:     p.HeldLinearDamping,
			HeldAngularDamping:    p.HeldAngularDamping,
			ReleaseLinearDamping:  p.ReleaseLinearDamping,
			ReleaseAngularDamping: p.ReleaseAngularDamping,
			ReleasePolicy:         p.ReleasePolicy.String(),
		},
		Sim: SimConfig{
			FrameDt:  DefaultFrameDt,
			FixedDt:  DefaultFixedDt,
			Duration: DefaultDuration,
			MaxTicks: sim.MaxTicksPerFrame,
		},
		Physics: PhysicsConfig{
			Gravity:     ph.Gravity,
			GroundY:     ph.GroundY,
			Restitution: ph.Restitution,
			Friction:    ph.Friction,
			Integrator:  ph.Integrator,
		},
		Camera: CameraConfig{
			Position:  mgl64.Vec3{0, DefaultEyeHeight, 0},
			Pitch:     DefaultPitch,
			MoveSpeed: DefaultMoveSpeed,
			LookSpeed: DefaultLookSpeed,
		},
		Scene:   defaultScene(),
		Script:  defaultScript(),
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func defaultScene() []ObjectConfig {
	return []ObjectConfig{
		{Name: "crate", Tag: carry.MoveableTag, Position: mgl64.Vec3{0, 0.25, -2.45}, Radius: 0.25, Mass: 1},
		{Name: "ball", Tag: carry.MoveableTag, Position: mgl64.Vec3{-1.2, 0.2, -2}, Radius: 0.2, Mass: 0.5},
		{Name: "barrel", Tag: carry.MoveableTag, Position: mgl64.Vec3{1.4, 0.4, -2.6}, Radius: 0.4, Mass: 6},
		{Name: "rock", Tag: "Scenery", Position: mgl64.Vec3{2.2, 0.3, -1.2}, Radius: 0.3, Mass: 3},
		{Name: "pillar", Position: mgl64.Vec3{-2, 1, -4}, Radius: 0.6},
	}
}

// defaultScript picks up the crate, carries it level, pushes it out, spins it
// and throws it.
func defaultScript() []input.Event {
	return []input.Event{
		{At: 0.2, Press: []string{"E"}},
		{At: 1.5, Look: []float64{0, 30}},
		{At: 2.5, Scroll: 1.5},
		{At: 3.0, Press: []string{"R"}, Pointer: []float64{0, 0}},
		{At: 3.2, Pointer: []float64{4, 0}},
		{At: 3.4, Pointer: []float64{8, 3}},
		{At: 3.6, Press: []string{"R"}},
		{At: 4.5, Click: true},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CarryParams converts the carry section, parsing key names and the policy.
func (c *Config) CarryParams() (carry.Params, error) {
	cc := c.Carry
	pickup, err := input.ParseKey(cc.PickupKey)
	if err != nil {
		return carry.Params{}, fmt.Errorf("pickup_key: %w", err)
	}
	rotate, err := input.ParseKey(cc.RotateKey)
	if err != nil {
		return carry.Params{}, fmt.Errorf("rotate_key: %w", err)
	}
	policy, err := carry.ParseReleasePolicy(cc.ReleasePolicy)
	if err != nil {
		return carry.Params{}, fmt.Errorf("release_policy: %w", err)
	}

	return carry.Params{
		PickupDistance:  cc.PickupDistance,
		HoldDistance:    cc.HoldDistance,
		MinHoldDistance: cc.MinHoldDistance,
		MaxHoldDistance: cc.MaxHoldDistance,
		ScrollSpeed:     cc.ScrollSpeed,
		PickupKey:       pickup,
		RotateKey:       rotate,
		PickupForce:     cc.PickupForce,
		ThrowForce:      cc.ThrowForce,
		RotationSpeed:   cc.RotationSpeed,
		HoldOffset:      cc.HoldOffset,
		Tag:             cc.Tag,

		HeldLinearDamping:     cc.HeldLinearDamping,
		HeldAngularDamping:    cc.HeldAngularDamping,
		ReleaseLinearDamping:  cc.ReleaseLinearDamping,
		ReleaseAngularDamping: cc.ReleaseAngularDamping,
		ReleasePolicy:         policy,
	}, nil
}

func (c *Config) SimConfig() sim.Config {
	return sim.Config{
		FrameDt:     c.Sim.FrameDt,
		FrameJitter: c.Sim.FrameJitter,
		FixedDt:     c.Sim.FixedDt,
		Duration:    c.Sim.Duration,
		MaxTicks:    c.Sim.MaxTicks,
		Seed:        c.Sim.Seed,
	}
}

func (c *Config) PhysicsConfig() physics.Config {
	return physics.Config{
		Gravity:     c.Physics.Gravity,
		GroundY:     c.Physics.GroundY,
		Restitution: c.Physics.Restitution,
		Friction:    c.Physics.Friction,
		Integrator:  c.Physics.Integrator,
	}
}

func (o ObjectConfig) Spec() physics.ObjectSpec {
	return physics.ObjectSpec{
		Name:     o.Name,
		Tag:      o.Tag,
		Position: o.Position,
		Radius:   o.Radius,
		Mass:     o.Mass,
	}
}

// Validate checks every section without building anything.
func (c *Config) Validate() error {
	params, err := c.CarryParams()
	if err != nil {
		return fmt.Errorf("carry: %w: %w", dynamo.ErrInvalidConfig, err)
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("carry: %w", err)
	}
	if err := c.SimConfig().Validate(); err != nil {
		return fmt.Errorf("sim: %w", err)
	}
	if _, err := integrators.New(c.Physics.Integrator); err != nil {
		return fmt.Errorf("physics: %w: %w", dynamo.ErrInvalidConfig, err)
	}
	if c.Physics.Restitution < 0 || c.Physics.Restitution > 1 {
		return fmt.Errorf("physics: restitution %g outside [0, 1]: %w", c.Physics.Restitution, dynamo.ErrInvalidConfig)
	}
	for i, o := range c.Scene {
		if o.Radius < 0 || o.Mass < 0 {
			return fmt.Errorf("scene object %d (%s): negative radius or mass: %w", i, o.Name, dynamo.ErrInvalidConfig)
		}
	}
	if _, err := input.NewScript(c.Script); err != nil {
		return fmt.Errorf("script: %w: %w", dynamo.ErrInvalidConfig, err)
	}
	return nil
}
