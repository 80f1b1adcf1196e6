// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/roadmap"
)

// Tolerance is the slack used when reading solver values and objectives.
const Tolerance = 1e-6

// Model is the solver payload for one backlog.
type Model struct {
	Vars       []Var
	Objective  []Term // maximized; zero coefficients are omitted
	Capacity   []Linear
	Uniqueness []Linear
	Precedence []Implication
	// WarmStart maps every variable index to 0 or 1; nil without a warm start.
	WarmStart map[int]float64

	b     *backlog.Backlog
	nCols int
}

// Option configures Build.
type Option func(*buildConfig)

type buildConfig struct {
	warm *roadmap.Roadmap
}

// WithWarmStart attaches the assignment of r as the initial incumbent.
// A nil r means no warm start.
func WithWarmStart(r *roadmap.Roadmap) Option {
	return func(c *buildConfig) { c.warm = r }
}

// Build creates the model of b.
//
// Complexity: O(P·S) variables, O(P·(S + E)) constraint terms where E counts
// dependency edges; precedence look-back sums add O(P²·E) terms.
func Build(b *backlog.Backlog, opts ...Option) (*Model, error) {
	var cfg buildConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	rows, cols := b.NumSprints(), b.Len()
	m := &Model{Vars: make([]Var, 0, rows*cols), b: b, nCols: cols}

	// 1) Variables and objective.
	for row := 0; row < rows; row++ {
		sp := b.SprintAt(row)
		for col := 0; col < cols; col++ {
			st := b.StoryAt(col)
			v := Var{Index: len(m.Vars), Row: row, Col: col, Sprint: sp.Ordinal, Story: st.ID}
			m.Vars = append(m.Vars, v)
			if w := float64(st.BusinessValue * sp.ValueBonus); w != 0 {
				m.Objective = append(m.Objective, Term{Var: v.Index, Coef: w})
			}
		}
	}

	// 2) Capacity per sprint.
	for row := 0; row < rows; row++ {
		c := Linear{Name: fmt.Sprintf("cap_%d", row), Sense: LessEq, RHS: float64(b.SprintAt(row).Capacity)}
		for col := 0; col < cols; col++ {
			c.Terms = append(c.Terms, Term{Var: row*cols + col, Coef: float64(b.StoryAt(col).StoryPoints)})
		}
		m.Capacity = append(m.Capacity, c)
	}

	// 3) Uniqueness per story.
	for col := 0; col < cols; col++ {
		c := Linear{Name: fmt.Sprintf("uniq_%d", col), Sense: LessEq, RHS: 1}
		for row := 0; row < rows; row++ {
			c.Terms = append(c.Terms, Term{Var: row*cols + col, Coef: 1})
		}
		m.Uniqueness = append(m.Uniqueness, c)
	}

	// 4) Precedence, once per (edge, sprint).
	for col := 0; col < cols; col++ {
		for _, dep := range b.StoryAt(col).Dependencies {
			dcol := b.StoryIndex(dep)
			for row := 0; row < rows; row++ {
				then := Linear{Name: fmt.Sprintf("prec_%d_%d_%d", col, dcol, row), Sense: Equal, RHS: 1}
				for prev := 0; prev < row; prev++ {
					then.Terms = append(then.Terms, Term{Var: prev*cols + dcol, Coef: 1})
				}
				m.Precedence = append(m.Precedence, Implication{Name: then.Name, If: row*cols + col, Then: then})
			}
		}
	}

	// 5) Warm start.
	if cfg.warm != nil {
		if cfg.warm.Backlog() != b {
			return nil, fmt.Errorf("Build: %w", ErrForeignWarmStart)
		}
		m.WarmStart = make(map[int]float64, len(m.Vars))
		for _, v := range m.Vars {
			m.WarmStart[v.Index] = 0
			if cfg.warm.Slot(v.Story) == backlog.Scheduled(v.Sprint) {
				m.WarmStart[v.Index] = 1
			}
		}
	}

	return m, nil
}

// Backlog returns the instance the model was built from.
func (m *Model) Backlog() *backlog.Backlog { return m.b }

// VarIndex returns the index of x[sprint ordinal][story id], or -1.
func (m *Model) VarIndex(ordinal, storyID int) int {
	row, col := m.b.SprintIndex(ordinal), m.b.StoryIndex(storyID)
	if row < 0 || col < 0 {
		return -1
	}

	return row*m.nCols + col
}

// WarmStartValues returns the warm start as a dense vector, or nil.
func (m *Model) WarmStartValues() []float64 {
	if m.WarmStart == nil {
		return nil
	}
	out := make([]float64, len(m.Vars))
	for i, v := range m.WarmStart {
		out[i] = v
	}

	return out
}

// Evaluate returns the objective of values.
func (m *Model) Evaluate(values []float64) float64 {
	total := 0.0
	for _, t := range m.Objective {
		total += t.Coef * values[t.Var]
	}

	return total
}

// Violated returns the names of the constraints values break, in the order
// capacity, uniqueness, precedence. An empty result means values satisfy the
// model. values must have len(m.Vars) entries.
func (m *Model) Violated(values []float64) []string {
	var out []string
	for _, c := range m.Capacity {
		if !c.Holds(values, Tolerance) {
			out = append(out, c.Name)
		}
	}
	for _, c := range m.Uniqueness {
		if !c.Holds(values, Tolerance) {
			out = append(out, c.Name)
		}
	}
	for _, p := range m.Precedence {
		if values[p.If] > 0.5 && !p.Then.Holds(values, Tolerance) {
			out = append(out, p.Name)
		}
	}

	return out
}

// Commit decodes a solver result into a roadmap.
//
// Infeasible yields ErrNoSolution, TimedOut without values yields
// ErrNoSolutionWithinBudget. Any result with values is decoded (x > 0.5 means
// scheduled) without trusting the solver: the roadmap must pass IsFeasible and
// its value must match res.Objective, otherwise ErrInvalidSolution.
func Commit(m *Model, res Result) (*roadmap.Roadmap, error) {
	// 1) Status.
	switch {
	case res.Status == Infeasible:
		return nil, ErrNoSolution
	case res.Status == TimedOut && res.Values == nil:
		return nil, ErrNoSolutionWithinBudget
	case res.Values == nil:
		return nil, fmt.Errorf("Commit: status %s without values: %w", res.Status, ErrInvalidSolution)
	case len(res.Values) != len(m.Vars):
		return nil, fmt.Errorf("Commit: %d values for %d variables: %w", len(res.Values), len(m.Vars), ErrInvalidSolution)
	}

	// 2) Decode.
	members := make(map[int][]int)
	for _, v := range m.Vars {
		x := res.Values[v.Index]
		if math.Abs(x-math.Round(x)) > Tolerance || x < -Tolerance || x > 1+Tolerance {
			return nil, fmt.Errorf("Commit: %s = %g is not binary: %w", v.Name(), x, ErrInvalidSolution)
		}
		if x > 0.5 {
			members[v.Sprint] = append(members[v.Sprint], v.Story)
		}
	}
	r, err := roadmap.FromMembers(m.b, members)
	if err != nil {
		return nil, fmt.Errorf("Commit: %w: %w", ErrInvalidSolution, err)
	}

	// 3) Re-validate independently of the solver.
	if vs := r.Violations(); len(vs) > 0 {
		return nil, fmt.Errorf("Commit: %w: %w", ErrInvalidSolution, &vs[0])
	}
	if got := float64(r.Value()); math.Abs(got-res.Objective) > Tolerance*math.Max(1, math.Abs(got)) {
		return nil, fmt.Errorf("Commit: objective %g, roadmap value %g: %w", res.Objective, got, ErrInvalidSolution)
	}

	return r, nil
}
