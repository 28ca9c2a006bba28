package sim

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/carrysim/internal/input"
)

// Builder assembles a fresh loop and input source for one ensemble member.
type Builder func(seed int64) (*Loop, input.Source, error)

// Ensemble runs independent copies of a scenario with consecutive seeds.
type Ensemble struct {
	build     Builder
	numRuns   int
	seedStart int64
}

func NewEnsemble(build Builder, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{build: build, numRuns: numRuns, seedStart: seedStart}
}

// Run plays every member concurrently. The first failure cancels the rest.
func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < e.numRuns; i++ {
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(i)

			loop, src, err := e.build(cfgCopy.Seed)
			if err != nil {
				return err
			}
			results[i], err = loop.Run(ctx, src, cfgCopy)
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
