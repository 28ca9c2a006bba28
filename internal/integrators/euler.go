package integrators

import "github.com/go-gl/mathgl/mgl64"

// Euler is the explicit forward Euler step: position uses the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Name() string { return "euler" }

func (e *Euler) Integrate(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	return pos.Add(vel.Mul(dt)), vel.Add(acc.Mul(dt))
}

// SymplecticEuler updates velocity first, then moves with the new velocity.
// It is what most game physics engines step with.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (s *SymplecticEuler) Name() string { return "symplectic" }

func (s *SymplecticEuler) Integrate(pos, vel, acc mgl64.Vec3, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	v := vel.Add(acc.Mul(dt))
	return pos.Add(v.Mul(dt)), v
}
