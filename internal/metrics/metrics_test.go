package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/sim"
)

func held(err float64, vel mgl64.Vec3) sim.Sample {
	return sim.Sample{Held: dynamo.EntityID(1), Error: err, Velocity: vel}
}

func TestHoldErrorRMS(t *testing.T) {
	m := NewHoldError()
	m.Observe(held(3, mgl64.Vec3{}))
	m.Observe(held(4, mgl64.Vec3{}))
	m.Observe(sim.Sample{Error: 100})

	expected := math.Sqrt((9 + 16) / 2.0)
	if math.Abs(m.Value()-expected) > 1e-12 {
		t.Errorf("expected RMS %f, got %f", expected, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestControlEffort(t *testing.T) {
	m := NewControlEffort()
	m.Observe(held(0, mgl64.Vec3{3, 4, 0}))
	m.Observe(held(0, mgl64.Vec3{0, 0, 1}))
	m.Observe(sim.Sample{Velocity: mgl64.Vec3{100, 0, 0}})

	if got := m.Value(); math.Abs(got-3) > 1e-12 {
		t.Errorf("expected mean effort 3, got %f", got)
	}
}

func TestHeldFraction(t *testing.T) {
	m := NewHeldFraction()
	if m.Value() != 0 {
		t.Error("expected zero with no samples")
	}
	m.Observe(sim.Sample{})
	for i := 0; i < 3; i++ {
		m.Observe(held(0, mgl64.Vec3{}))
	}
	if got := m.Value(); got != 0.75 {
		t.Errorf("expected 0.75, got %f", got)
	}
}

func TestStability(t *testing.T) {
	tests := []struct {
		name   string
		errors []float64
		want   float64
	}{
		{"no samples", nil, 1},
		{"all within", []float64{0.01, 0.02}, 1},
		{"half outside", []float64{0.01, 0.5}, 0.5},
		{"all outside", []float64{1, 2, 3}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewStability(0.05)
			for _, e := range tt.errors {
				m.Observe(held(e, mgl64.Vec3{}))
			}
			if got := m.Value(); got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStandardNamesAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, m := range Standard() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 metrics, got %d", len(seen))
	}
}
