package integrators

import "github.com/go-gl/mathgl/mgl64"

// Verlet is velocity Verlet. With acceleration constant over the tick it
// reduces to the exact ballistic update.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return "verlet" }

func (v *Verlet) Integrate(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	next := pos.Add(vel.Mul(dt)).Add(acc.Mul(0.5 * dt * dt))
	return next, vel.Add(acc.Mul(dt))
}
