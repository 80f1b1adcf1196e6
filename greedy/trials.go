// SPDX-License-Identifier: MIT

package greedy

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/roadmap"
)

// trialsConfig collects the Trials options.
type trialsConfig struct {
	trials   int
	seed     int64
	workers  int
	identity bool
}

// TrialOption customizes Trials.
type TrialOption func(*trialsConfig)

// WithTrials sets the number of randomized constructions. Panics if n < 1.
func WithTrials(n int) TrialOption {
	if n < 1 {
		panic(fmt.Sprintf("greedy: WithTrials(%d)", n))
	}

	return func(c *trialsConfig) { c.trials = n }
}

// WithSeed sets the base seed; trial i uses a stream derived from it.
// Seed 0 is replaced by a fixed default, so runs stay reproducible.
func WithSeed(seed int64) TrialOption {
	return func(c *trialsConfig) { c.seed = seed }
}

// WithWorkers bounds the number of goroutines. Panics if n < 1.
func WithWorkers(n int) TrialOption {
	if n < 1 {
		panic(fmt.Sprintf("greedy: WithWorkers(%d)", n))
	}

	return func(c *trialsConfig) { c.workers = n }
}

// WithIdentityTrial makes trial 0 use the identity order instead of a shuffle.
func WithIdentityTrial(on bool) TrialOption {
	return func(c *trialsConfig) { c.identity = on }
}

// Outcome is the result of Trials.
type Outcome struct {
	// Best is the roadmap with the highest value; ties go to the lowest trial.
	Best *roadmap.Roadmap
	// BestTrial is the index of Best.
	BestTrial int
	// Values holds the value of every trial, by index.
	Values []int
}

// Trials runs independent greedy constructions and keeps the best one.
// Defaults: 16 trials, seed 0, GOMAXPROCS workers, identity trial on.
//
// Every trial owns its roadmap and an RNG seeded with deriveSeed(seed, i),
// so the outcome is identical for any worker count. ctx cancellation stops
// the remaining trials and returns ctx.Err().
//
// Complexity: O(T·S·P) probes in total, spread across workers.
func Trials(ctx context.Context, b *backlog.Backlog, opts ...TrialOption) (Outcome, error) {
	cfg := trialsConfig{trials: 16, workers: runtime.GOMAXPROCS(0), identity: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	results := make([]*roadmap.Roadmap, cfg.trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i := 0; i < cfg.trials; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				r   *roadmap.Roadmap
				err error
			)
			if i == 0 && cfg.identity {
				r, err = Identity(b)
			} else {
				seed := deriveSeed(cfg.seed, uint64(i))
				r, err = Random(b, rngFromSeed(seed))
			}
			if err != nil {
				return fmt.Errorf("trial %d: %w", i, err)
			}
			results[i] = r

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Outcome{}, fmt.Errorf("Trials: %w", err)
	}

	// Deterministic pick: highest value, lowest index on ties.
	out := Outcome{Values: make([]int, cfg.trials)}
	for i, r := range results {
		v := r.Value()
		out.Values[i] = v
		if out.Best == nil || v > out.Values[out.BestTrial] {
			out.Best, out.BestTrial = r, i
		}
	}

	return out, nil
}
