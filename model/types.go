// SPDX-License-Identifier: MIT

package model

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoSolution is returned by Commit for an Infeasible result.
	ErrNoSolution = errors.New("model: no solution found")

	// ErrNoSolutionWithinBudget is returned by Commit for a TimedOut result
	// that carries no incumbent.
	ErrNoSolutionWithinBudget = errors.New("model: no solution within budget")

	// ErrInvalidSolution indicates a result whose values do not decode to a
	// feasible roadmap or disagree with the reported objective.
	ErrInvalidSolution = errors.New("model: invalid solution")

	// ErrForeignWarmStart indicates a warm-start roadmap over another backlog.
	ErrForeignWarmStart = errors.New("model: warm start belongs to another backlog")
)

// Var is one decision variable x[Row][Col].
type Var struct {
	Index  int
	Row    int // position of the sprint in ascending ordinal
	Col    int // position of the story in ascending id
	Sprint int // sprint ordinal
	Story  int // story id
}

// Name is the LP identifier of v.
func (v Var) Name() string { return fmt.Sprintf("x_%d_%d", v.Row, v.Col) }

// Term is Coef·x[Var].
type Term struct {
	Var  int
	Coef float64
}

// Sense is the relation of a linear constraint.
type Sense int

const (
	// LessEq reads Σ ≤ RHS.
	LessEq Sense = iota
	// Equal reads Σ = RHS.
	Equal
	// GreaterEq reads Σ ≥ RHS.
	GreaterEq
)

// String returns the LP operator of s: "<=", "=" or ">=".
func (s Sense) String() string {
	switch s {
	case LessEq:
		return "<="
	case Equal:
		return "="
	case GreaterEq:
		return ">="
	default:
		return fmt.Sprintf("sense(%d)", int(s))
	}
}

// Linear is Σ Terms Sense RHS.
type Linear struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Holds reports whether values satisfy c within tolerance eps.
func (c Linear) Holds(values []float64, eps float64) bool {
	lhs := 0.0
	for _, t := range c.Terms {
		lhs += t.Coef * values[t.Var]
	}
	switch c.Sense {
	case LessEq:
		return lhs <= c.RHS+eps
	case GreaterEq:
		return lhs >= c.RHS-eps
	default:
		return lhs >= c.RHS-eps && lhs <= c.RHS+eps
	}
}

// Implication is x[If] = 1 ⟹ Then.
type Implication struct {
	Name string
	If   int
	Then Linear
}

// Status is the outcome class reported by a solver.
type Status int

const (
	// Optimal: the search completed and Values is a proven optimum.
	Optimal Status = iota + 1
	// Feasible: a node budget stopped the search; Values is the incumbent.
	Feasible
	// Infeasible: the search completed without any feasible assignment.
	Infeasible
	// TimedOut: the time budget or the context stopped the search. Values is
	// the best incumbent, or nil if none was found.
	TimedOut
)

// String returns the status name, e.g. "Optimal".
func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Feasible:
		return "Feasible"
	case Infeasible:
		return "Infeasible"
	case TimedOut:
		return "TimedOut"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is a solver response. Values is indexed like Model.Vars.
type Result struct {
	Status    Status
	Values    []float64
	Objective float64
	// Nodes is the number of search nodes explored, if the solver counts them.
	Nodes int64
}

// Solver is the exact-solving collaborator. Solve blocks until the search
// ends, its own budget runs out, or ctx is done.
type Solver interface {
	Solve(ctx context.Context, m *Model) (Result, error)
}

// SolverFunc adapts a function to Solver.
type SolverFunc func(ctx context.Context, m *Model) (Result, error)

// Solve calls f(ctx, m).
func (f SolverFunc) Solve(ctx context.Context, m *Model) (Result, error) { return f(ctx, m) }
