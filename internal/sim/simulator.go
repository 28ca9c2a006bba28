package sim

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/san-kum/carrysim/internal/camera"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/dynamo"
	"github.com/san-kum/carrysim/internal/input"
	"github.com/san-kum/carrysim/internal/physics"
)

// accumulatorSlack absorbs rounding so frames that are exact multiples of the
// tick still run the expected number of ticks.
const accumulatorSlack = 1e-9

// Loop drives the frame update and the fixed-tick update of one scene.
// It is not safe for concurrent use.
type Loop struct {
	world     *physics.World
	ctrl      *carry.Controller
	cam       *camera.Camera
	log       *slog.Logger
	metrics   []Metric
	observers []Observer

	accumulator float64
	ticks       int
	dropped     float64
}

// New builds a loop. cam may be nil, in which case Look input is ignored.
func New(world *physics.World, ctrl *carry.Controller, cam *camera.Camera, log *slog.Logger) *Loop {
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		world:     world,
		ctrl:      ctrl,
		cam:       cam,
		log:       log.With("component", "sim"),
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (l *Loop) AddMetric(m Metric)     { l.metrics = append(l.metrics, m) }
func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

func (l *Loop) World() *physics.World         { return l.world }
func (l *Loop) Controller() *carry.Controller { return l.ctrl }
func (l *Loop) Camera() *camera.Camera        { return l.cam }
func (l *Loop) Ticks() int                    { return l.ticks }

// Alpha is the fraction of a tick left in the accumulator, for render
// interpolation.
func (l *Loop) Alpha(fixedDt float64) float64 {
	return l.accumulator / fixedDt
}

// Frame runs one rendered frame: camera look, then the controller's frame
// update, then as many fixed ticks as the accumulated time allows.
func (l *Loop) Frame(f input.Frame, cfg Config) []Sample {
	if l.cam != nil && (f.Look[0] != 0 || f.Look[1] != 0) {
		l.cam.Look(f.Look[0], f.Look[1])
	}
	l.ctrl.Update(f)

	l.accumulator += f.Dt
	var samples []Sample
	for l.accumulator+accumulatorSlack >= cfg.FixedDt {
		if len(samples) == cfg.maxTicks() {
			l.dropped += l.accumulator
			l.log.Warn("frame hit tick cap", "ticks", len(samples), "dropped", l.accumulator)
			l.accumulator = 0
			break
		}
		samples = append(samples, l.tick(cfg.FixedDt))
		l.accumulator -= cfg.FixedDt
	}
	if l.accumulator < 0 {
		l.accumulator = 0
	}
	return samples
}

func (l *Loop) tick(dt float64) Sample {
	cmd, holding := l.ctrl.FixedUpdate(dt)
	l.world.Step(dt)
	l.ticks++

	s := Sample{
		Tick:         l.ticks,
		Time:         l.world.Time(),
		Mode:         l.ctrl.Mode(),
		Held:         l.ctrl.HeldEntity(),
		HoldDistance: l.ctrl.HoldDistance(),
	}
	if holding {
		s.Target = cmd.Target
		s.Position = cmd.Position
		s.Velocity = cmd.Velocity
		s.Error = cmd.Error
	}

	for _, m := range l.metrics {
		m.Observe(s)
	}
	for _, obs := range l.observers {
		obs.OnTick(s)
	}
	return s
}

// Run plays src against the loop for cfg.Duration of frame time.
func (l *Loop) Run(ctx context.Context, src input.Source, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	result := &Result{
		Samples: make([]Sample, 0, int(cfg.Duration/cfg.FixedDt)+1),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range l.metrics {
		m.Reset()
	}

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), 0x5eed))
	startTicks, startDropped := l.ticks, l.dropped
	t := 0.0

run:
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		dt := cfg.FrameDt
		if cfg.FrameJitter > 0 {
			dt *= 1 + cfg.FrameJitter*(2*rng.Float64()-1)
		}

		for _, s := range l.Frame(src.Next(t, dt), cfg) {
			if !s.IsValid() {
				result.Errors = append(result.Errors, dynamo.SimError{
					Tick: s.Tick, Time: s.Time, Message: "non-finite carry state",
				})
				break run
			}
			result.Samples = append(result.Samples, s)
		}
		result.Frames++
		t += dt
	}

	result.Ticks = l.ticks - startTicks
	result.Dropped = l.dropped - startDropped
	for _, m := range l.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	l.log.Debug("run complete", "frames", result.Frames, "ticks", result.Ticks, "dropped", result.Dropped)
	return result, nil
}
