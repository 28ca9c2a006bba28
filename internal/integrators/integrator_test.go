package integrators

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

var gravity = mgl64.Vec3{0, -9.81, 0}

func fall(integ Integrator, steps int, dt float64) (mgl64.Vec3, mgl64.Vec3) {
	pos, vel := mgl64.Vec3{0, 10, 0}, mgl64.Vec3{}
	for i := 0; i < steps; i++ {
		pos, vel = integ.Integrate(pos, vel, gravity, dt)
	}
	return pos, vel
}

func TestVerletExactBallistic(t *testing.T) {
	pos, vel := fall(NewVerlet(), 100, 0.01)

	expectedY := 10 - 0.5*9.81*1.0
	if math.Abs(pos[1]-expectedY) > 1e-9 {
		t.Errorf("y = %.6f, expected %.6f", pos[1], expectedY)
	}
	if math.Abs(vel[1]+9.81) > 1e-9 {
		t.Errorf("vy = %.6f, expected -9.81", vel[1])
	}
}

func TestEulerBracketsExact(t *testing.T) {
	expectedY := 10 - 0.5*9.81*1.0

	explicit, _ := fall(NewEuler(), 100, 0.01)
	symplectic, _ := fall(NewSymplecticEuler(), 100, 0.01)

	// Explicit Euler lags the true fall, symplectic Euler leads it.
	if explicit[1] <= expectedY {
		t.Errorf("explicit y = %.6f, expected above %.6f", explicit[1], expectedY)
	}
	if symplectic[1] >= expectedY {
		t.Errorf("symplectic y = %.6f, expected below %.6f", symplectic[1], expectedY)
	}
	if math.Abs(explicit[1]-expectedY) > 0.06 || math.Abs(symplectic[1]-expectedY) > 0.06 {
		t.Errorf("error too large: explicit %.4f symplectic %.4f", explicit[1], symplectic[1])
	}
}

func TestNew(t *testing.T) {
	for _, name := range List() {
		integ, err := New(name)
		if err != nil {
			t.Fatalf("New(%q) failed: %v", name, err)
		}
		if integ.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, integ.Name())
		}
	}

	if _, err := New("rk45"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}
