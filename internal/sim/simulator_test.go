package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/camera"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
	"github.com/san-kum/carrysim/internal/physics"
)

func buildScene() (*Loop, dynamo.EntityID, error) {
	world, err := physics.NewWorld(physics.DefaultConfig())
	if err != nil {
		return nil, dynamo.NoEntity, err
	}
	crate := world.Spawn(physics.ObjectSpec{
		Name: "crate", Tag: carry.MoveableTag,
		Position: mgl64.Vec3{0, 1.6, -2}, Radius: 0.25, Mass: 1,
	})
	cam := camera.New(mgl64.Vec3{0, 1.6, 0}, 0, 0)
	ctrl, err := carry.New(cam, world, carry.DefaultParams(), nil)
	if err != nil {
		return nil, dynamo.NoEntity, err
	}
	return New(world, ctrl, cam, nil), crate, nil
}

func newTestLoop(t *testing.T) (*Loop, dynamo.EntityID) {
	t.Helper()
	loop, crate, err := buildScene()
	if err != nil {
		t.Fatalf("scene: %v", err)
	}
	return loop, crate
}

func script(t *testing.T, events ...input.Event) *input.Script {
	t.Helper()
	s, err := input.NewScript(events)
	if err != nil {
		t.Fatalf("script: %v", err)
	}
	return s
}

func TestLoopTickCount(t *testing.T) {
	tests := []struct {
		name    string
		frameDt float64
		fixedDt float64
		ticks   int
	}{
		{"frame equals tick", 0.0625, 0.0625, 16},
		{"several ticks per frame", 0.25, 0.0625, 16},
		{"uneven frames", 0.25, 0.1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, _ := newTestLoop(t)
			cfg := Config{FrameDt: tt.frameDt, FixedDt: tt.fixedDt, Duration: 1}

			result, err := loop.Run(context.Background(), input.Idle{}, cfg)
			if err != nil {
				t.Fatalf("run failed: %v", err)
			}
			if result.Ticks != tt.ticks {
				t.Errorf("expected %d ticks, got %d", tt.ticks, result.Ticks)
			}
			if len(result.Samples) != tt.ticks {
				t.Errorf("expected %d samples, got %d", tt.ticks, len(result.Samples))
			}
			if result.Dropped != 0 {
				t.Errorf("expected no dropped time, got %g", result.Dropped)
			}
		})
	}
}

func TestLoopTickCap(t *testing.T) {
	loop, _ := newTestLoop(t)
	cfg := Config{FrameDt: 1, FixedDt: 0.02, Duration: 1}

	result, err := loop.Run(context.Background(), input.Idle{}, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.Ticks != MaxTicksPerFrame {
		t.Errorf("expected %d ticks, got %d", MaxTicksPerFrame, result.Ticks)
	}
	if math.Abs(result.Dropped-0.84) > 1e-9 {
		t.Errorf("expected 0.84s dropped, got %g", result.Dropped)
	}
}

func TestLoopInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want error
	}{
		{"zero frame dt", Config{FrameDt: 0, FixedDt: 0.02, Duration: 1}, dynamo.ErrInvalidTimestep},
		{"negative fixed dt", Config{FrameDt: 0.02, FixedDt: -0.1, Duration: 1}, dynamo.ErrInvalidTimestep},
		{"zero duration", Config{FrameDt: 0.02, FixedDt: 0.02, Duration: 0}, dynamo.ErrInvalidConfig},
		{"jitter too large", Config{FrameDt: 0.02, FixedDt: 0.02, Duration: 1, FrameJitter: 1}, dynamo.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loop, _ := newTestLoop(t)
			_, err := loop.Run(context.Background(), input.Idle{}, tt.cfg)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestLoopCancelled(t *testing.T) {
	loop, _ := newTestLoop(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := loop.Run(ctx, input.Idle{}, DefaultConfig())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

type testMetric struct {
	count int
	held  int
}

func (m *testMetric) Name() string { return "test" }
func (m *testMetric) Observe(s Sample) {
	m.count++
	if s.Holding() {
		m.held++
	}
}
func (m *testMetric) Value() float64 { return float64(m.held) }
func (m *testMetric) Reset()         { m.count, m.held = 0, 0 }

func TestLoopMetricsAndObservers(t *testing.T) {
	loop, _ := newTestLoop(t)
	metric := &testMetric{}
	loop.AddMetric(metric)
	var seen int
	loop.AddObserver(ObserverFunc(func(Sample) { seen++ }))

	cfg := Config{FrameDt: 0.02, FixedDt: 0.02, Duration: 1}
	result, err := loop.Run(context.Background(), script(t, input.Event{At: 0, Press: []string{"E"}}), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if metric.count != result.Ticks || seen != result.Ticks {
		t.Errorf("expected %d observations, got metric %d observer %d", result.Ticks, metric.count, seen)
	}
	if got := result.Metrics["test"]; got != float64(result.Ticks) {
		t.Errorf("expected every tick held, got %v of %d", got, result.Ticks)
	}
}

func TestPickupFrameRunsBeforeTicks(t *testing.T) {
	loop, crate := newTestLoop(t)
	cfg := DefaultConfig()

	samples := loop.Frame(input.Frame{Dt: 0.02, Pressed: []input.Key{input.KeyE}}, cfg)
	if len(samples) != 1 {
		t.Fatalf("expected 1 tick, got %d", len(samples))
	}
	if samples[0].Held != crate || samples[0].Mode != carry.Held {
		t.Errorf("expected crate held on its pickup tick, got %+v", samples[0])
	}
	if samples[0].Error == 0 {
		t.Error("expected a non-zero tracking error on the first tick")
	}
}

func TestFrameAppliesLook(t *testing.T) {
	loop, _ := newTestLoop(t)
	loop.Frame(input.Frame{Dt: 0.01, Look: mgl64.Vec2{30, -10}}, DefaultConfig())

	if loop.Camera().Yaw() != 30 || loop.Camera().Pitch() != -10 {
		t.Errorf("expected yaw 30 pitch -10, got %v %v", loop.Camera().Yaw(), loop.Camera().Pitch())
	}
	if loop.Ticks() != 0 {
		t.Errorf("expected no ticks for a short frame, got %d", loop.Ticks())
	}
	if a := loop.Alpha(0.02); math.Abs(a-0.5) > 1e-9 {
		t.Errorf("expected alpha 0.5, got %v", a)
	}
}

func TestScriptedPickupAndThrow(t *testing.T) {
	loop, crate := newTestLoop(t)
	src := script(t,
		input.Event{At: 0.1, Press: []string{"E"}},
		input.Event{At: 2, Click: true},
	)
	cfg := Config{FrameDt: 1.0 / 60, FixedDt: 0.02, Duration: 2.5}

	result, err := loop.Run(context.Background(), src, cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}

	var last Sample
	for _, s := range result.Samples {
		if s.Holding() {
			last = s
		}
	}
	if last.Held != crate {
		t.Fatal("crate was never held")
	}
	if last.Error > 0.01 {
		t.Errorf("expected the crate to settle before the throw, error %v", last.Error)
	}

	final := result.Samples[len(result.Samples)-1]
	if final.Holding() {
		t.Error("expected the throw to release the crate")
	}
	e, _ := loop.World().Get(crate)
	if v := e.RigidBody().LinearVelocity(); v[2] > -5 {
		t.Errorf("expected the crate flying forward, velocity %v", v)
	}
}

func TestSampleIsValid(t *testing.T) {
	tests := []struct {
		name   string
		sample Sample
		valid  bool
	}{
		{"zero", Sample{}, true},
		{"normal", Sample{Time: 1, Position: mgl64.Vec3{1, 2, 3}, Error: 0.5}, true},
		{"NaN error", Sample{Error: math.NaN()}, false},
		{"Inf velocity", Sample{Velocity: mgl64.Vec3{0, math.Inf(1), 0}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sample.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestEnsemble(t *testing.T) {
	build := func(seed int64) (*Loop, input.Source, error) {
		loop, _, err := buildScene()
		if err != nil {
			return nil, nil, err
		}
		src, err := input.NewScript([]input.Event{{At: 0, Press: []string{"E"}}})
		return loop, src, err
	}
	cfg := Config{FrameDt: 1.0 / 60, FrameJitter: 0.5, FixedDt: 0.02, Duration: 1}

	results, err := NewEnsemble(build, 4, 1).Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("ensemble failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}
	for i, r := range results {
		if r.Ticks < 45 || r.Ticks > 55 {
			t.Errorf("run %d: expected about 50 ticks, got %d", i, r.Ticks)
		}
	}
}

func TestEnsembleBuildError(t *testing.T) {
	errBoom := errors.New("boom")
	build := func(seed int64) (*Loop, input.Source, error) {
		if seed == 2 {
			return nil, nil, errBoom
		}
		loop, _, err := buildScene()
		return loop, input.Idle{}, err
	}
	cfg := Config{FrameDt: 1.0 / 60, FixedDt: 0.02, Duration: 0.5}

	if _, err := NewEnsemble(build, 3, 1).Run(context.Background(), cfg); !errors.Is(err, errBoom) {
		t.Errorf("expected the build error, got %v", err)
	}
}
