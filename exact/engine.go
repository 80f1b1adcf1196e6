// SPDX-License-Identifier: MIT

package exact

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/katalvlaran/sprintplan/depgraph"
	"github.com/katalvlaran/sprintplan/model"
)

type stopReason int

const (
	stopNone stopReason = iota
	stopTime
	stopNodes
)

// entry is one occurrence of a variable in a linear constraint.
type entry struct {
	c    int
	coef float64
}

// engine holds the search data; one per Solve call.
type engine struct {
	ctx context.Context
	m   *model.Model
	eps float64

	// Budgets
	useDeadline bool
	deadline    time.Time
	nodeLimit   int64
	nodes       int64
	stop        stopReason

	// Linear constraints with their activity ranges
	cons   []model.Linear
	lo, hi []float64
	consOf [][]entry // var → occurrences

	objCoef []float64
	impsOf  [][]int // var → implications it triggers
	thenOf  [][]int // var → implications whose right side mentions it

	groups [][]int   // branching candidates per group
	order  []int     // group order (dependencies first)
	rest   []float64 // rest[pos]: best possible gain of groups order[pos:]

	// Current state
	vals  []float64
	fixed []bool
	cur   float64

	// Incumbent
	best     []float64
	bestVal  float64
	haveBest bool
}

func newEngine(ctx context.Context, m *model.Model, opts Options) *engine {
	n := len(m.Vars)
	e := &engine{
		ctx:       ctx,
		m:         m,
		eps:       opts.Eps,
		nodeLimit: opts.NodeLimit,
		consOf:    make([][]entry, n),
		objCoef:   make([]float64, n),
		impsOf:    make([][]int, n),
		thenOf:    make([][]int, n),
		vals:      make([]float64, n),
		fixed:     make([]bool, n),
	}
	if opts.TimeLimit > 0 {
		e.useDeadline = true
		e.deadline = time.Now().Add(opts.TimeLimit)
	}

	// 1) Constraints and their initial ranges (every variable free).
	e.cons = append(append(e.cons, m.Capacity...), m.Uniqueness...)
	e.lo = make([]float64, len(e.cons))
	e.hi = make([]float64, len(e.cons))
	for ci, c := range e.cons {
		for _, t := range c.Terms {
			e.consOf[t.Var] = append(e.consOf[t.Var], entry{c: ci, coef: t.Coef})
			e.lo[ci] += math.Min(0, t.Coef)
			e.hi[ci] += math.Max(0, t.Coef)
		}
	}
	for _, t := range m.Objective {
		e.objCoef[t.Var] += t.Coef
	}
	for pi, p := range m.Precedence {
		e.impsOf[p.If] = append(e.impsOf[p.If], pi)
		for _, t := range p.Then.Terms {
			e.thenOf[t.Var] = append(e.thenOf[t.Var], pi)
		}
	}

	e.buildGroups()

	return e
}

// buildGroups partitions the variables by the "at most one" constraints,
// orders each group for branching and orders the groups topologically.
func (e *engine) buildGroups() {
	n := len(e.m.Vars)
	groupOf := make([]int, n)
	for i := range groupOf {
		groupOf[i] = -1
	}
	for _, c := range e.m.Uniqueness {
		if !atMostOne(c) {
			continue
		}
		var g []int
		for _, t := range c.Terms {
			if groupOf[t.Var] < 0 {
				groupOf[t.Var] = len(e.groups)
				g = append(g, t.Var)
			}
		}
		if len(g) > 0 {
			e.groups = append(e.groups, g)
		}
	}
	for v := 0; v < n; v++ {
		if groupOf[v] < 0 {
			groupOf[v] = len(e.groups)
			e.groups = append(e.groups, []int{v})
		}
	}

	// Most valuable variable first, index tie-break.
	for _, g := range e.groups {
		slices.SortStableFunc(g, func(a, b int) int {
			switch {
			case e.objCoef[a] > e.objCoef[b]:
				return -1
			case e.objCoef[a] < e.objCoef[b]:
				return 1
			default:
				return a - b
			}
		})
	}

	// Group g depends on every group its implications look at.
	dg := depgraph.New()
	for gi := range e.groups {
		dg.AddVertex(gi)
	}
	for _, p := range e.m.Precedence {
		from := groupOf[p.If]
		for _, t := range p.Then.Terms {
			if to := groupOf[t.Var]; to != from {
				if err := dg.AddEdge(from, to); err != nil {
					panic(fmt.Sprintf("exact: group edge %d→%d: %v", from, to, err))
				}
			}
		}
	}
	order, err := dg.TopologicalOrder()
	if err != nil {
		// Cyclic implications: any order is still correct, only slower.
		order = dg.Vertices()
	}
	e.order = order

	e.rest = make([]float64, len(e.order)+1)
	for pos := len(e.order) - 1; pos >= 0; pos-- {
		gain := 0.0
		for _, v := range e.groups[e.order[pos]] {
			gain = math.Max(gain, e.objCoef[v])
		}
		e.rest[pos] = e.rest[pos+1] + gain
	}
}

// atMostOne reports whether c reads Σ x ≤ 1 with unit coefficients.
func atMostOne(c model.Linear) bool {
	if c.Sense != model.LessEq || c.RHS != 1 {
		return false
	}
	for _, t := range c.Terms {
		if t.Coef != 1 {
			return false
		}
	}

	return true
}

// seed installs the first incumbent: the warm start when it satisfies the
// model, else the all-zero assignment when that does. The incumbent is never
// a nil slice, even for a model without variables.
func (e *engine) seed(warm []float64) {
	if warm != nil && len(warm) == len(e.m.Vars) && binary(warm) && len(e.m.Violated(warm)) == 0 {
		e.best = append(make([]float64, 0, len(warm)), warm...)
		e.bestVal = e.m.Evaluate(warm)
		e.haveBest = true

		return
	}
	zeros := make([]float64, len(e.m.Vars))
	if len(e.m.Violated(zeros)) == 0 {
		e.best = zeros
		e.bestVal = 0
		e.haveBest = true
	}
}

func binary(values []float64) bool {
	for _, x := range values {
		if x != 0 && x != 1 {
			return false
		}
	}

	return true
}

// budgetHit counts a node and probes the budgets (ctx and clock every 1024
// nodes, starting with the first).
func (e *engine) budgetHit() bool {
	e.nodes++
	if e.nodeLimit > 0 && e.nodes > e.nodeLimit {
		e.stop = stopNodes
		return true
	}
	if e.nodes&1023 != 1 {
		return false
	}
	if e.ctx.Err() != nil || (e.useDeadline && time.Now().After(e.deadline)) {
		e.stop = stopTime
		return true
	}

	return false
}

// dfs decides the group at position pos and recurses.
func (e *engine) dfs(pos int) {
	if e.stop != stopNone || e.budgetHit() {
		return
	}
	// Prune: even the best completion cannot beat the incumbent.
	if e.haveBest && e.cur+e.rest[pos] <= e.bestVal+e.eps {
		return
	}
	if pos == len(e.order) {
		e.record()
		return
	}

	group := e.groups[e.order[pos]]
	for _, k := range group {
		if e.fix(group, k) {
			e.dfs(pos + 1)
		}
		e.unfix(group)
		if e.stop != stopNone {
			return
		}
	}
	if e.fix(group, -1) {
		e.dfs(pos + 1)
	}
	e.unfix(group)
}

// record stores the current full assignment as the incumbent.
func (e *engine) record() {
	if len(e.m.Violated(e.vals)) > 0 {
		return
	}
	e.best = append(make([]float64, 0, len(e.vals)), e.vals...)
	e.bestVal = e.cur
	e.haveBest = true
}

// fix sets variable k of group to 1 and the others to 0, updating every
// range, and reports whether the constraints can still be met. The state is
// always fully updated so that unfix can reverse it.
func (e *engine) fix(group []int, k int) bool {
	ok := true
	for _, v := range group {
		x := 0.0
		if v == k {
			x = 1
		}
		e.vals[v], e.fixed[v] = x, true
		e.cur += e.objCoef[v] * x
		for _, en := range e.consOf[v] {
			e.lo[en.c] += en.coef*x - math.Min(0, en.coef)
			e.hi[en.c] += en.coef*x - math.Max(0, en.coef)
			if ok && !e.possible(e.cons[en.c].Sense, e.lo[en.c], e.hi[en.c], e.cons[en.c].RHS) {
				ok = false
			}
		}
	}
	if !ok {
		return false
	}

	// Implications fired by k, and fired ones whose right side just changed.
	if k >= 0 {
		for _, pi := range e.impsOf[k] {
			if !e.implicationPossible(pi) {
				return false
			}
		}
	}
	for _, v := range group {
		for _, pi := range e.thenOf[v] {
			p := e.m.Precedence[pi]
			if e.fixed[p.If] && e.vals[p.If] == 1 && !e.implicationPossible(pi) {
				return false
			}
		}
	}

	return true
}

// unfix reverses fix for the same group.
func (e *engine) unfix(group []int) {
	for _, v := range group {
		x := e.vals[v]
		e.cur -= e.objCoef[v] * x
		for _, en := range e.consOf[v] {
			e.lo[en.c] -= en.coef*x - math.Min(0, en.coef)
			e.hi[en.c] -= en.coef*x - math.Max(0, en.coef)
		}
		e.vals[v], e.fixed[v] = 0, false
	}
}

func (e *engine) implicationPossible(pi int) bool {
	then := e.m.Precedence[pi].Then
	lo, hi := 0.0, 0.0
	for _, t := range then.Terms {
		if e.fixed[t.Var] {
			lo += t.Coef * e.vals[t.Var]
			hi += t.Coef * e.vals[t.Var]
			continue
		}
		lo += math.Min(0, t.Coef)
		hi += math.Max(0, t.Coef)
	}

	return e.possible(then.Sense, lo, hi, then.RHS)
}

// possible reports whether some completion within [lo, hi] meets sense rhs.
func (e *engine) possible(sense model.Sense, lo, hi, rhs float64) bool {
	switch sense {
	case model.LessEq:
		return lo <= rhs+e.eps
	case model.GreaterEq:
		return hi >= rhs-e.eps
	default:
		return lo <= rhs+e.eps && hi >= rhs-e.eps
	}
}
