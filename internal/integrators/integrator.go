// Package integrators advances rigid-body kinematics by one fixed tick.
package integrators

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// Integrator advances position and velocity under a constant acceleration
// held for one tick.
type Integrator interface {
	Name() string
	Integrate(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3)
}

var registry = map[string]func() Integrator{
	"euler":      func() Integrator { return NewEuler() },
	"symplectic": func() Integrator { return NewSymplecticEuler() },
	"verlet":     func() Integrator { return NewVerlet() },
}

// New returns the integrator registered under name.
func New(name string) (Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func List() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
