// Package experiment assembles a runnable carry scene from configuration.
package experiment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/san-kum/carrysim/internal/camera"
	"github.com/san-kum/carrysim/internal/carry"
	"github.com/san-kum/carrysim/internal/config"
	"github.com/san-kum/carrysim/internal/input"
	"github.com/san-kum/carrysim/internal/metrics"
	"github.com/san-kum/carrysim/internal/physics"
	"github.com/san-kum/carrysim/internal/sim"
	"github.com/san-kum/carrysim/internal/storage"
)

type Experiment struct {
	cfg    *config.Config
	log    *slog.Logger
	loop   *sim.Loop
	script *input.Script
}

func New(cfg *config.Config, log *slog.Logger) *Experiment {
	if log == nil {
		log = slog.Default()
	}
	return &Experiment{cfg: cfg, log: log}
}

// Setup validates the config and builds the world, camera, controller and
// loop. It may be called again to start over from a clean scene.
func (e *Experiment) Setup() error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	world, err := physics.NewWorld(e.cfg.PhysicsConfig())
	if err != nil {
		return err
	}
	for _, obj := range e.cfg.Scene {
		id := world.Spawn(obj.Spec())
		e.log.Debug("spawned", "name", obj.Name, "entity", id, "tag", obj.Tag)
	}

	cam := camera.New(e.cfg.Camera.Position, e.cfg.Camera.Yaw, e.cfg.Camera.Pitch)

	params, err := e.cfg.CarryParams()
	if err != nil {
		return err
	}
	ctrl, err := carry.New(cam, world, params, e.log)
	if err != nil {
		return err
	}

	script, err := input.NewScript(e.cfg.Script)
	if err != nil {
		return err
	}

	e.loop = sim.New(world, ctrl, cam, e.log)
	for _, m := range metrics.Standard() {
		e.loop.AddMetric(m)
	}
	e.script = script
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.loop == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.loop.Run(ctx, e.script, e.cfg.SimConfig())
}

// Loop returns the underlying loop for adding observers or driving frames
// by hand.
func (e *Experiment) Loop() *sim.Loop {
	return e.loop
}

// Script is the input script built by Setup.
func (e *Experiment) Script() *input.Script {
	return e.script
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}

// Metadata describes a finished run for storage.
func (e *Experiment) Metadata(preset string, result *sim.Result) storage.RunMetadata {
	sc := e.cfg.SimConfig()
	return storage.RunMetadata{
		Preset:        preset,
		Seed:          sc.Seed,
		FrameDt:       sc.FrameDt,
		FixedDt:       sc.FixedDt,
		Duration:      sc.Duration,
		Integrator:    e.cfg.Physics.Integrator,
		ReleasePolicy: e.cfg.Carry.ReleasePolicy,
		Frames:        result.Frames,
		Ticks:         result.Ticks,
		Dropped:       result.Dropped,
		Metrics:       result.Metrics,
	}
}

// RunEnsemble plays the same config numRuns times concurrently, seeding each
// run's frame jitter from seedStart upward.
func RunEnsemble(ctx context.Context, cfg *config.Config, numRuns int, seedStart int64, log *slog.Logger) ([]*sim.Result, error) {
	build := func(seed int64) (*sim.Loop, input.Source, error) {
		exp := New(cfg, log)
		if err := exp.Setup(); err != nil {
			return nil, nil, err
		}
		return exp.loop, exp.script, nil
	}
	return sim.NewEnsemble(build, numRuns, seedStart).Run(ctx, cfg.SimConfig())
}
