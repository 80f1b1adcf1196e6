// SPDX-License-Identifier: MIT

package exact

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/katalvlaran/sprintplan/model"
)

// ErrMalformedModel indicates a term or implication referring to a variable
// index outside the model.
var ErrMalformedModel = errors.New("exact: malformed model")

// Options are the solver budgets. Zero values disable a budget.
type Options struct {
	// TimeLimit bounds wall-clock search time. Exceeding it yields TimedOut.
	TimeLimit time.Duration
	// NodeLimit bounds the number of search nodes. Exceeding it yields
	// Feasible with the incumbent, or TimedOut when there is none.
	NodeLimit int64
	// Eps is the improvement threshold; 0 means 1e-9.
	Eps float64
}

// DefaultOptions returns unlimited budgets.
func DefaultOptions() Options { return Options{Eps: 1e-9} }

// Solver implements model.Solver.
type Solver struct {
	opts Options
}

var _ model.Solver = (*Solver)(nil)

// New returns a solver with the given budgets.
func New(opts Options) *Solver {
	if opts.Eps <= 0 {
		opts.Eps = 1e-9
	}

	return &Solver{opts: opts}
}

// Solve runs the search. The error is non-nil only for a malformed model;
// infeasibility and exhausted budgets are reported through Result.Status.
func (s *Solver) Solve(ctx context.Context, m *model.Model) (model.Result, error) {
	if err := validate(m); err != nil {
		return model.Result{}, err
	}

	e := newEngine(ctx, m, s.opts)
	e.seed(m.WarmStartValues())
	e.dfs(0)

	res := model.Result{Nodes: e.nodes}
	if e.haveBest {
		res.Values = e.best
		res.Objective = e.bestVal
	}
	switch {
	case e.stop == stopTime:
		res.Status = model.TimedOut
	case e.stop == stopNodes && e.haveBest:
		res.Status = model.Feasible
	case e.stop == stopNodes:
		res.Status = model.TimedOut
	case e.haveBest:
		res.Status = model.Optimal
	default:
		res.Status = model.Infeasible
	}

	return res, nil
}

// validate checks every variable reference once, so the search can index
// without bounds checks of its own.
func validate(m *model.Model) error {
	n := len(m.Vars)
	check := func(where string, v int) error {
		if v < 0 || v >= n {
			return fmt.Errorf("Solve: %s: variable %d of %d: %w", where, v, n, ErrMalformedModel)
		}

		return nil
	}
	for _, t := range m.Objective {
		if err := check("objective", t.Var); err != nil {
			return err
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return fmt.Errorf("Solve: objective coefficient %g: %w", t.Coef, ErrMalformedModel)
		}
	}
	for _, list := range [][]model.Linear{m.Capacity, m.Uniqueness} {
		for _, c := range list {
			for _, t := range c.Terms {
				if err := check(c.Name, t.Var); err != nil {
					return err
				}
			}
		}
	}
	for _, p := range m.Precedence {
		if err := check(p.Name, p.If); err != nil {
			return err
		}
		for _, t := range p.Then.Terms {
			if err := check(p.Name, t.Var); err != nil {
				return err
			}
		}
	}

	return nil
}
