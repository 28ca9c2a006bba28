package optim

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/san-kum/carrysim/internal/config"
	"github.com/san-kum/carrysim/internal/experiment"
)

// Objective turns a run's metrics into a cost to minimize.
type Objective func(metrics map[string]float64) float64

// Minimize returns an objective that minimizes one metric.
func Minimize(metric string) Objective {
	return func(m map[string]float64) float64 {
		v, ok := m[metric]
		if !ok {
			return math.Inf(1)
		}
		return v
	}
}

// Maximize returns an objective that maximizes one metric.
func Maximize(metric string) Objective {
	return func(m map[string]float64) float64 {
		v, ok := m[metric]
		if !ok {
			return math.Inf(1)
		}
		return -v
	}
}

// Trial is one evaluated grid point.
type Trial struct {
	Params  map[string]float64
	Metrics map[string]float64
	Cost    float64
	Err     error
}

// GridSearch evaluates every combination of the given settings, named by
// their dotted config paths, against a base config.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
	log        *slog.Logger
}

func NewGridSearch(params []string, ranges [][]float64, log *slog.Logger) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d parameters but %d ranges", len(params), len(ranges))
	}
	base := config.DefaultConfig()
	for i, name := range params {
		if _, err := base.Param(name); err != nil {
			return nil, err
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("parameter %s has no values", name)
		}
	}
	if log == nil {
		log = slog.Default()
	}
	return &GridSearch{paramNames: params, ranges: ranges, log: log}, nil
}

// Search runs every grid point and returns the cheapest one along with all
// trials in grid order. Points whose config is invalid or whose run fails are
// recorded with Err set and never win.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, objective Objective) (*Trial, []Trial, error) {
	var trials []Trial
	if err := g.searchRecursive(ctx, 0, make(map[string]float64), base, objective, &trials); err != nil {
		return nil, trials, err
	}

	var best *Trial
	for i := range trials {
		if trials[i].Err == nil && (best == nil || trials[i].Cost < best.Cost) {
			best = &trials[i]
		}
	}
	if best == nil {
		return nil, trials, fmt.Errorf("no grid point produced a valid run")
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	objective Objective,
	trials *[]Trial,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		*trials = append(*trials, g.evaluate(ctx, current, base, objective))
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, base, objective, trials); err != nil {
			return err
		}
	}
	return nil
}

func (g *GridSearch) evaluate(ctx context.Context, params map[string]float64, base *config.Config, objective Objective) Trial {
	trial := Trial{Params: params, Cost: math.Inf(1)}

	cfg := *base
	for name, v := range params {
		if trial.Err = cfg.SetParam(name, v); trial.Err != nil {
			return trial
		}
	}

	exp := experiment.New(&cfg, g.log)
	if trial.Err = exp.Setup(); trial.Err != nil {
		g.log.Debug("grid point rejected", "params", params, "err", trial.Err)
		return trial
	}
	result, err := exp.Run(ctx)
	if err != nil {
		trial.Err = err
		return trial
	}
	if len(result.Errors) > 0 {
		trial.Err = result.Errors[0]
		return trial
	}

	trial.Metrics = result.Metrics
	trial.Cost = objective(result.Metrics)
	g.log.Debug("grid point", "params", params, "cost", trial.Cost)
	return trial
}
