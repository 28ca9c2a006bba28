package sim

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
)

// MaxTicksPerFrame bounds how many fixed ticks one frame may run before the
// remaining accumulated time is dropped.
const MaxTicksPerFrame = 8

// Sample is the carry state observed after one fixed tick.
type Sample struct {
	Tick         int
	Time         float64
	Mode         carry.Mode
	Held         dynamo.EntityID
	HoldDistance float64
	Target       mgl64.Vec3
	Position     mgl64.Vec3
	Velocity     mgl64.Vec3
	Error        float64
}

func (s Sample) Holding() bool { return s.Held != dynamo.NoEntity }

// IsValid reports whether every numeric field is finite.
func (s Sample) IsValid() bool {
	vals := []float64{s.Time, s.HoldDistance, s.Error}
	for _, v := range []mgl64.Vec3{s.Target, s.Position, s.Velocity} {
		vals = append(vals, v[:]...)
	}
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnTick(s Sample)
}

type ObserverFunc func(s Sample)

func (f ObserverFunc) OnTick(s Sample) { f(s) }

type Config struct {
	// FrameDt is the nominal render frame duration.
	FrameDt float64
	// FrameJitter varies each frame by up to this fraction of FrameDt.
	FrameJitter float64
	FixedDt     float64
	Duration    float64
	MaxTicks    int
	Seed        int64
}

func DefaultConfig() Config {
	return Config{
		FrameDt:  1.0 / 60,
		FixedDt:  0.02,
		Duration: 5,
		MaxTicks: MaxTicksPerFrame,
	}
}

func (c Config) Validate() error {
	if c.FrameDt <= 0 {
		return fmt.Errorf("frame dt %g: %w", c.FrameDt, dynamo.ErrInvalidTimestep)
	}
	if c.FixedDt <= 0 {
		return fmt.Errorf("fixed dt %g: %w", c.FixedDt, dynamo.ErrInvalidTimestep)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %g: %w", c.Duration, dynamo.ErrInvalidConfig)
	}
	if c.FrameJitter < 0 || c.FrameJitter >= 1 {
		return fmt.Errorf("frame jitter %g outside [0, 1): %w", c.FrameJitter, dynamo.ErrInvalidConfig)
	}
	if c.MaxTicks < 0 {
		return fmt.Errorf("max ticks %d: %w", c.MaxTicks, dynamo.ErrInvalidConfig)
	}
	return nil
}

func (c Config) maxTicks() int {
	if c.MaxTicks == 0 {
		return MaxTicksPerFrame
	}
	return c.MaxTicks
}

type Result struct {
	Samples []Sample
	Metrics map[string]float64
	Frames  int
	Ticks   int
	// Dropped is simulated time discarded when a frame hit the tick cap.
	Dropped float64
	Errors  []error
}
