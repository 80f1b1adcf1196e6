// SPDX-License-Identifier: MIT

package localsearch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/sprintplan/roadmap"
)

// ErrInfeasibleStart indicates Improve was given a roadmap that fails IsFeasible.
var ErrInfeasibleStart = errors.New("localsearch: starting roadmap is infeasible")

// Neighbor is a feasible state one move away from the origin.
type Neighbor struct {
	Move    Move
	Roadmap *roadmap.Roadmap
	Value   int
}

// Neighbors applies every move of r's matrix and returns the resulting
// states that pass IsFeasible, in move order. r is not modified.
//
// Complexity: O(k·(n−k)·(S + E + P)).
func Neighbors(r *roadmap.Roadmap) ([]Neighbor, error) {
	m := FromRoadmap(r)
	var out []Neighbor
	for _, mv := range m.Moves() {
		nr, err := neighbor(m, mv)
		if err != nil {
			return nil, fmt.Errorf("Neighbors: %w", err)
		}
		if nr.IsFeasible() {
			out = append(out, Neighbor{Move: mv, Roadmap: nr, Value: nr.Value()})
		}
	}

	return out, nil
}

func neighbor(m *Matrix, mv Move) (*roadmap.Roadmap, error) {
	nm, err := m.Apply(mv)
	if err != nil {
		return nil, err
	}

	return nm.Roadmap()
}

// Strategy selects which improving neighbor a step accepts.
type Strategy int

const (
	// FirstImprovement accepts the first improving neighbor in move order.
	FirstImprovement Strategy = iota
	// BestImprovement scans the whole neighborhood and accepts the best one;
	// ties keep the earliest move.
	BestImprovement
)

// StopReason tells why Improve returned.
type StopReason int

const (
	// LocalOptimum: no feasible neighbor has a higher value.
	LocalOptimum StopReason = iota
	// IterationLimit: the configured number of accepted moves was reached.
	IterationLimit
	// TimeLimit: the wall-clock budget ran out.
	TimeLimit
	// Cancelled: the context was done.
	Cancelled
)

func (s StopReason) String() string {
	switch s {
	case LocalOptimum:
		return "local optimum"
	case IterationLimit:
		return "iteration limit"
	case TimeLimit:
		return "time limit"
	case Cancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("stop(%d)", int(s))
	}
}

type config struct {
	strategy      Strategy
	maxIterations int
	timeLimit     time.Duration
}

// Option customizes Improve.
type Option func(*config)

// WithStrategy sets the acceptance strategy (default FirstImprovement).
func WithStrategy(s Strategy) Option {
	return func(c *config) { c.strategy = s }
}

// WithMaxIterations caps the number of accepted moves; 0 means no cap.
// Panics if n < 0.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("localsearch: WithMaxIterations(%d)", n))
	}

	return func(c *config) { c.maxIterations = n }
}

// WithTimeLimit sets a wall-clock budget; 0 disables it. Panics if d < 0.
func WithTimeLimit(d time.Duration) Option {
	if d < 0 {
		panic(fmt.Sprintf("localsearch: WithTimeLimit(%s)", d))
	}

	return func(c *config) { c.timeLimit = d }
}

// Result is the outcome of Improve.
type Result struct {
	Roadmap    *roadmap.Roadmap
	Value      int
	Iterations int // accepted moves
	Evaluated  int // neighbors materialized
	Stop       StopReason
}

// Improve hill-climbs from r over the swap neighborhood, accepting only
// feasible neighbors with a strictly higher value. It never returns a state
// worse than r and never modifies r. Budget exhaustion and cancellation are
// not errors: the best state so far is returned with the matching Stop.
//
// Complexity: O(iterations · k·(n−k) · (S + E + P)).
func Improve(ctx context.Context, r *roadmap.Roadmap, opts ...Option) (Result, error) {
	cfg := config{strategy: FirstImprovement}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !r.IsFeasible() {
		return Result{}, ErrInfeasibleStart
	}

	var deadline time.Time
	if cfg.timeLimit > 0 {
		deadline = time.Now().Add(cfg.timeLimit)
	}
	res := Result{Roadmap: r.Clone(), Value: r.Value()}
	m := FromRoadmap(res.Roadmap)

	// stopped probes the clock and the context every 256 neighbors.
	stopped := func() (StopReason, bool) {
		if res.Evaluated&255 != 0 {
			return 0, false
		}
		if ctx.Err() != nil {
			return Cancelled, true
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			return TimeLimit, true
		}

		return 0, false
	}

	for {
		if cfg.maxIterations > 0 && res.Iterations >= cfg.maxIterations {
			res.Stop = IterationLimit
			return res, nil
		}

		var (
			best    *roadmap.Roadmap
			bestM   *Matrix
			bestVal = res.Value
		)
		for _, mv := range m.Moves() {
			if why, ok := stopped(); ok {
				res.Stop = why
				return res, nil
			}
			nm, err := m.Apply(mv)
			if err != nil {
				return res, fmt.Errorf("Improve: %w", err)
			}
			nr, err := nm.Roadmap()
			if err != nil {
				return res, fmt.Errorf("Improve: %w", err)
			}
			res.Evaluated++

			// Value first: most neighbors are rejected without the full audit.
			v := nr.Value()
			if v <= bestVal || !nr.IsFeasible() {
				continue
			}
			best, bestM, bestVal = nr, nm, v
			if cfg.strategy == FirstImprovement {
				break
			}
		}
		if best == nil {
			res.Stop = LocalOptimum
			return res, nil
		}
		res.Roadmap, res.Value, m = best, bestVal, bestM
		res.Iterations++
	}
}
