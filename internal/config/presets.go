package config

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
)

type Preset struct {
	Description string
	apply       func(c *Config)
}

var Presets = map[string]Preset{
	"default": {
		Description: "pick up the crate, carry, rotate and throw it",
		apply:       func(c *Config) {},
	},
	"heavy": {
		Description: "a heavy barrel with a weak grip and a hard throw",
		apply: func(c *Config) {
			c.Carry.PickupForce = 80
			c.Carry.ThrowForce = 15
			c.Carry.HeldLinearDamping = 6
			c.Scene = []ObjectConfig{
				{Name: "barrel", Tag: carry.MoveableTag, Position: mgl64.Vec3{0, 0.25, -2.45}, Radius: 0.25, Mass: 8},
			}
		},
	},
	"snappy": {
		Description: "a stiff grip that tracks the view closely",
		apply: func(c *Config) {
			c.Carry.PickupForce = 400
			c.Carry.HeldLinearDamping = 20
			c.Carry.HeldAngularDamping = 10
		},
	},
	"throw": {
		Description: "grab the crate and throw it upward straight away",
		apply: func(c *Config) {
			c.Sim.Duration = 4
			c.Script = []input.Event{
				{At: 0.2, Press: []string{"E"}},
				{At: 0.8, Look: []float64{0, 45}},
				{At: 1.2, Click: true},
			}
		},
	},
	"restore": {
		Description: "release puts back the pickup gravity and damping",
		apply: func(c *Config) {
			c.Carry.ReleasePolicy = carry.ReleaseRestore.String()
			c.Script = []input.Event{
				{At: 0.2, Press: []string{"E"}},
				{At: 1.5, Press: []string{"E"}},
			}
		},
	},
}

// GetPreset returns a fresh config with the named preset applied.
func GetPreset(name string) (*Config, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", dynamo.ErrUnknownPreset, name)
	}
	cfg := DefaultConfig()
	p.apply(cfg)
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
