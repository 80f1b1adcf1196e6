// SPDX-License-Identifier: MIT

package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/greedy"
	"github.com/katalvlaran/sprintplan/localsearch"
	"github.com/katalvlaran/sprintplan/logging"
	"github.com/katalvlaran/sprintplan/model"
	"github.com/katalvlaran/sprintplan/roadmap"
)

// ErrNilBacklog is returned by Plan for a nil backlog.
var ErrNilBacklog = errors.New("planner: nil backlog")

// Planner wires the pipeline stages. It holds no per-run state and may be
// reused; concurrent Plan calls are safe when the solver is.
type Planner struct {
	solver     model.Solver
	log        *logging.Logger
	trialOpts  []greedy.TrialOption
	warmStart  bool
	polish     bool
	searchOpts []localsearch.Option
	lp         io.Writer
}

// Option configures a Planner.
type Option func(*Planner)

// WithLogger sets the logger (default NopLogger).
func WithLogger(l *logging.Logger) Option {
	return func(p *Planner) { p.log = l }
}

// WithTrialOptions forwards options to greedy.Trials.
func WithTrialOptions(opts ...greedy.TrialOption) Option {
	return func(p *Planner) { p.trialOpts = append(p.trialOpts, opts...) }
}

// WithWarmStart controls whether the greedy roadmap is handed to the solver
// as a MIP start (default true).
func WithWarmStart(on bool) Option {
	return func(p *Planner) { p.warmStart = on }
}

// WithLocalSearch enables the hill-climbing polish with the given options.
func WithLocalSearch(opts ...localsearch.Option) Option {
	return func(p *Planner) {
		p.polish = true
		p.searchOpts = opts
	}
}

// WithLPWriter makes Plan write the model in LP format to w before solving.
func WithLPWriter(w io.Writer) Option {
	return func(p *Planner) { p.lp = w }
}

// New returns a Planner around solver; nil means greedy-only.
func New(solver model.Solver, opts ...Option) *Planner {
	p := &Planner{solver: solver, log: logging.NopLogger(), warmStart: true}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Plan is the outcome of one run.
type Plan struct {
	RunID   uuid.UUID
	Roadmap *roadmap.Roadmap
	// Status is the solver status, or Feasible for greedy-only runs.
	Status model.Status
	// Value is Roadmap.Value().
	Value int
	// WarmStartValue is the value of the best greedy roadmap.
	WarmStartValue int
	// Nodes is the solver's node count, when it reports one.
	Nodes int64
	// PolishGain is the value added by local search.
	PolishGain int
	Elapsed    time.Duration
}

// Plan runs the pipeline on b.
//
// Errors: ErrNilBacklog; ctx errors from the warm start; solver errors;
// model.ErrNoSolution when the solver proves infeasibility; and
// model.ErrInvalidSolution when the solver's answer fails re-validation.
func (p *Planner) Plan(ctx context.Context, b *backlog.Backlog) (Plan, error) {
	if b == nil {
		return Plan{}, ErrNilBacklog
	}
	start := time.Now()
	plan := Plan{RunID: uuid.New()}
	log := p.log.WithRun(plan.RunID.String())
	log.Info("plan started", "stories", b.Len(), "sprints", b.NumSprints())

	// 1) Warm start.
	out, err := greedy.Trials(ctx, b, p.trialOpts...)
	if err != nil {
		return Plan{}, fmt.Errorf("Plan: warm start: %w", err)
	}
	warm := out.Best
	plan.WarmStartValue = warm.Value()
	log.WithPhase("warm_start").Info("greedy trials done",
		"trials", len(out.Values), "best_trial", out.BestTrial, "value", plan.WarmStartValue)

	// 2–4) Model, solve, commit.
	best := warm
	plan.Status = model.Feasible
	if p.solver != nil {
		best, err = p.solve(ctx, log.WithPhase("solve"), b, warm, &plan)
		if err != nil {
			return Plan{}, err
		}
	}

	// 5) Polish.
	if p.polish && plan.Status != model.Optimal {
		res, err := localsearch.Improve(ctx, best, p.searchOpts...)
		if err != nil {
			return Plan{}, fmt.Errorf("Plan: local search: %w", err)
		}
		plan.PolishGain = res.Value - best.Value()
		best = res.Roadmap
		log.WithPhase("polish").Info("local search done",
			"iterations", res.Iterations, "evaluated", res.Evaluated, "stop", res.Stop.String(), "gain", plan.PolishGain)
	}

	plan.Roadmap = best
	plan.Value = best.Value()
	plan.Elapsed = time.Since(start)
	log.Info("plan finished", "status", plan.Status.String(), "value", plan.Value, "elapsed_ms", plan.Elapsed.Milliseconds())

	return plan, nil
}

// solve runs stages 2–4 and returns the better of the committed solution
// and the warm start.
func (p *Planner) solve(ctx context.Context, log *logging.Logger, b *backlog.Backlog, warm *roadmap.Roadmap, plan *Plan) (*roadmap.Roadmap, error) {
	var mopts []model.Option
	if p.warmStart {
		mopts = append(mopts, model.WithWarmStart(warm))
	}
	m, err := model.Build(b, mopts...)
	if err != nil {
		return nil, fmt.Errorf("Plan: build model: %w", err)
	}
	log.Debug("model built", "vars", len(m.Vars),
		"capacity", len(m.Capacity), "uniqueness", len(m.Uniqueness), "precedence", len(m.Precedence))
	if p.lp != nil {
		if err := model.WriteLP(p.lp, m); err != nil {
			return nil, fmt.Errorf("Plan: write LP: %w", err)
		}
	}

	res, err := p.solver.Solve(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("Plan: solve: %w", err)
	}
	plan.Status, plan.Nodes = res.Status, res.Nodes
	log.Info("solver returned", "status", res.Status.String(), "objective", res.Objective, "nodes", res.Nodes)

	r, err := model.Commit(m, res)
	switch {
	case errors.Is(err, model.ErrNoSolutionWithinBudget):
		log.Warn("no solution within budget, keeping warm start", "value", warm.Value())
		return warm, nil
	case err != nil:
		log.Error("solver result rejected", "err", err)
		return nil, fmt.Errorf("Plan: %w", err)
	}
	if r.Value() < warm.Value() {
		log.Warn("solver result below warm start, keeping warm start", "solver", r.Value(), "warm", warm.Value())
		return warm, nil
	}

	return r, nil
}
