package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/carrysim/internal/config"
	"github.com/san-kum/carrysim/internal/experiment"
	"github.com/san-kum/carrysim/internal/sim"
	"github.com/san-kum/carrysim/internal/storage"
)

// Scenario defines a scripted batch of runs
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset or config file with parameter overrides.
type ScenarioStep struct {
	Preset string             `yaml:"preset"`
	Config string             `yaml:"config"`
	Params map[string]float64 `yaml:"params"`
	Seed   int64              `yaml:"seed"`
	SaveAs string             `yaml:"save_as"`
}

// StepResult pairs a step's result with the id it was saved under, if any.
type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
	RunID  string
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}

	return &scenario, nil
}

func (s ScenarioStep) resolve() (*config.Config, error) {
	var cfg *config.Config
	var err error
	switch {
	case s.Config != "":
		cfg, err = config.Load(s.Config)
	case s.Preset != "":
		cfg, err = config.GetPreset(s.Preset)
	default:
		cfg = config.DefaultConfig()
	}
	if err != nil {
		return nil, err
	}
	for name, v := range s.Params {
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	if s.Seed != 0 {
		cfg.Sim.Seed = s.Seed
	}
	return cfg, nil
}

// RunScenario executes all steps in order. Steps are saved to st when it is
// non-nil, under SaveAs or the step's preset.
func RunScenario(ctx context.Context, scenario *Scenario, st *storage.Store, log *slog.Logger) ([]StepResult, error) {
	if log == nil {
		log = slog.Default()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "scenario", scenario.Name, "step", i+1, "of", len(scenario.Steps), "preset", step.Preset)

		cfg, err := step.resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg, log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Step: step, Result: result}
		if st != nil {
			name := step.SaveAs
			if name == "" {
				name = step.Preset
			}
			if name == "" {
				name = "default"
			}
			if sr.RunID, err = st.Save(exp.Metadata(name, result), result.Samples); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}

	return results, nil
}

// ParameterSweep runs a base config across evenly spaced values of one
// setting, named by its dotted config path.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	Metrics    map[string]float64
	Ticks      int
	Failed     bool
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, log *slog.Logger) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	if _, err := sweep.Base.Param(sweep.ParamName); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.Default()
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := *sweep.Base
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		exp := experiment.New(&cfg, log)
		if err := exp.Setup(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, paramVal, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Metrics:    result.Metrics,
			Ticks:      result.Ticks,
			Failed:     len(result.Errors) > 0,
		})

		log.Debug("sweep point", "step", i+1, "of", sweep.NumSteps, sweep.ParamName, paramVal)
	}

	return results, nil
}

// MonteCarloConfig perturbs the starting camera aim to test how reliably the
// script still picks something up.
type MonteCarloConfig struct {
	Base *config.Config
	// Perturbation is the largest yaw and pitch offset in degrees.
	Perturbation float64
	NumTrials    int
	Seed         int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID      int
	Yaw, Pitch   float64
	HeldFraction float64
	// Grabbed is true when the run held something and finished cleanly.
	Grabbed bool
}

// RunMonteCarlo executes trials with random aim perturbations on a worker
// pool. Results are in trial order and do not depend on scheduling.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, log *slog.Logger) ([]MonteCarloResult, error) {
	if log == nil {
		log = slog.Default()
	}
	if cfg.NumTrials <= 0 {
		return nil, nil
	}

	seed := uint64(cfg.Seed)
	if cfg.Seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	configs := make([]config.Config, cfg.NumTrials)
	for trial := range configs {
		configs[trial] = *cfg.Base
		configs[trial].Camera.Yaw += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		configs[trial].Camera.Pitch += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	errs := make([]error, cfg.NumTrials)
	pool := worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), cfg.NumTrials, time.Second)

	var wg sync.WaitGroup
	for trial := range configs {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: trial,
			Do: func() (any, error) {
				defer wg.Done()
				results[trial], errs[trial] = runTrial(ctx, trial, &configs[trial], log)
				return nil, errs[trial]
			},
		})
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	log.Info("monte carlo complete", "trials", cfg.NumTrials)
	return results, nil
}

func runTrial(ctx context.Context, trial int, cfg *config.Config, log *slog.Logger) (MonteCarloResult, error) {
	exp := experiment.New(cfg, log)
	if err := exp.Setup(); err != nil {
		return MonteCarloResult{}, err
	}

	result, err := exp.Run(ctx)
	if err != nil {
		return MonteCarloResult{}, err
	}

	held := result.Metrics["held_fraction"]
	return MonteCarloResult{
		TrialID:      trial,
		Yaw:          cfg.Camera.Yaw,
		Pitch:        cfg.Camera.Pitch,
		HeldFraction: held,
		Grabbed:      held > 0 && len(result.Errors) == 0,
	}, nil
}

// MonteCarloStats counts trials that did and did not grab something.
func MonteCarloStats(results []MonteCarloResult) (grabbed int, missed int) {
	for _, r := range results {
		if r.Grabbed {
			grabbed++
		} else {
			missed++
		}
	}
	return
}
