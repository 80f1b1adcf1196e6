// SPDX-License-Identifier: MIT

package exact_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/exact"
	"github.com/katalvlaran/sprintplan/greedy"
	"github.com/katalvlaran/sprintplan/model"
	"github.com/katalvlaran/sprintplan/roadmap"
)

func chainBacklog(t testing.TB) *backlog.Backlog {
	t.Helper()
	b, err := backlog.New(
		[]backlog.Story{
			{ID: 0, BusinessValue: 2, StoryPoints: 6},
			{ID: 1, BusinessValue: 8, StoryPoints: 3, Dependencies: []int{0}},
			{ID: 2, BusinessValue: 2, StoryPoints: 1, Dependencies: []int{1}},
			{ID: 3, BusinessValue: 6, StoryPoints: 4, Dependencies: []int{2}},
		},
		[]backlog.Sprint{
			{Ordinal: 0, Capacity: 7, ValueBonus: 4},
			{Ordinal: 1, Capacity: 7, ValueBonus: 3},
			{Ordinal: 2, Capacity: 7, ValueBonus: 2},
			{Ordinal: 3, Capacity: 7, ValueBonus: 1},
		},
	)
	require.NoError(t, err)

	return b
}

// exhaustive is the oracle: it tries every story→slot map, Backlog included,
// and returns the best feasible value.
func exhaustive(t *testing.T, b *backlog.Backlog) int {
	t.Helper()
	ids := b.StoryIDs()
	slots := b.ScanOrder()
	choice := make([]int, len(ids))
	best := 0
	for {
		assign := make(map[int]int)
		for i, c := range choice {
			if ord, ok := slots[c].Ordinal(); ok {
				assign[ids[i]] = ord
			}
		}
		r, err := roadmap.FromAssignments(b, assign)
		require.NoError(t, err)
		if r.IsFeasible() && r.Value() > best {
			best = r.Value()
		}

		// Next mixed-radix choice vector.
		i := 0
		for ; i < len(choice); i++ {
			choice[i]++
			if choice[i] < len(slots) {
				break
			}
			choice[i] = 0
		}
		if i == len(choice) {
			return best
		}
	}
}

func solve(t *testing.T, b *backlog.Backlog, opts exact.Options, mopts ...model.Option) (model.Result, *model.Model) {
	t.Helper()
	m, err := model.Build(b, mopts...)
	require.NoError(t, err)
	res, err := exact.New(opts).Solve(context.Background(), m)
	require.NoError(t, err)

	return res, m
}

func TestSolve_ChainMatchesExhaustive(t *testing.T) {
	b := chainBacklog(t)
	res, m := solve(t, b, exact.DefaultOptions())

	assert.Equal(t, model.Optimal, res.Status)
	assert.Equal(t, 42.0, res.Objective)
	assert.Equal(t, 42, exhaustive(t, b))
	assert.Positive(t, res.Nodes)

	r, err := model.Commit(m, res)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.Equal(t, backlog.Scheduled(i), r.Slot(i))
	}
}

func TestSolve_RandomInstancesMatchExhaustive(t *testing.T) {
	rng := rand.New(rand.NewSource(31))
	for round := 0; round < 25; round++ {
		nStories, nSprints := 2+rng.Intn(5), 1+rng.Intn(3)
		stories := make([]backlog.Story, nStories)
		for i := range stories {
			stories[i] = backlog.Story{ID: i * 3, BusinessValue: rng.Intn(10), StoryPoints: 1 + rng.Intn(6)}
			for d := 0; d < i; d++ {
				if rng.Intn(4) == 0 {
					stories[i].Dependencies = append(stories[i].Dependencies, d*3)
				}
			}
		}
		sprints := make([]backlog.Sprint, nSprints)
		for i := range sprints {
			sprints[i] = backlog.Sprint{Ordinal: 10 - i*2, Capacity: 3 + rng.Intn(8), ValueBonus: rng.Intn(5)}
		}
		b, err := backlog.New(stories, sprints)
		require.NoError(t, err)

		warm, err := greedy.Random(b, rng)
		require.NoError(t, err)
		res, m := solve(t, b, exact.DefaultOptions(), model.WithWarmStart(warm))

		want := exhaustive(t, b)
		require.Equal(t, model.Optimal, res.Status, "round %d", round)
		assert.Equal(t, float64(want), res.Objective, "round %d", round)
		assert.GreaterOrEqual(t, res.Objective, float64(warm.Value()))

		r, err := model.Commit(m, res)
		require.NoError(t, err, "round %d", round)
		assert.Equal(t, want, r.Value())
	}
}

func TestSolve_Budgets(t *testing.T) {
	b := chainBacklog(t)
	warm, err := greedy.Build(b, []int{0, 1})
	require.NoError(t, err)
	require.Equal(t, 32, warm.Value())

	// One node: the warm start comes back as the incumbent.
	res, _ := solve(t, b, exact.Options{NodeLimit: 1}, model.WithWarmStart(warm))
	assert.Equal(t, model.Feasible, res.Status)
	assert.Equal(t, 32.0, res.Objective)

	// Without a warm start the all-zero assignment is the incumbent.
	res, _ = solve(t, b, exact.Options{NodeLimit: 1})
	assert.Equal(t, model.Feasible, res.Status)
	assert.Equal(t, 0.0, res.Objective)
	assert.Len(t, res.Values, 16)

	// A cancelled context is reported as TimedOut with the incumbent.
	m, err := model.Build(b, model.WithWarmStart(warm))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err = exact.New(exact.DefaultOptions()).Solve(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, model.TimedOut, res.Status)
	assert.Equal(t, 32.0, res.Objective)

	r, err := model.Commit(m, res)
	require.NoError(t, err)
	assert.True(t, r.Equal(warm))
}

func TestSolve_InfeasibleAndMalformed(t *testing.T) {
	// x0 ≥ 2 cannot hold for a binary variable.
	m := &model.Model{
		Vars:     []model.Var{{Index: 0}},
		Capacity: []model.Linear{{Name: "c", Terms: []model.Term{{Var: 0, Coef: 1}}, Sense: model.GreaterEq, RHS: 2}},
	}
	res, err := exact.New(exact.DefaultOptions()).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, model.Infeasible, res.Status)
	assert.Nil(t, res.Values)

	_, err = model.Commit(m, res)
	assert.ErrorIs(t, err, model.ErrNoSolution)

	bad := &model.Model{Vars: []model.Var{{Index: 0}}, Objective: []model.Term{{Var: 3, Coef: 1}}}
	_, err = exact.New(exact.DefaultOptions()).Solve(context.Background(), bad)
	assert.ErrorIs(t, err, exact.ErrMalformedModel)
}

func TestSolve_EqualityForcesChoice(t *testing.T) {
	// Maximize x0 + 2·x1 subject to x0 + x1 ≤ 1 and x0 = 1.
	m := &model.Model{
		Vars:       []model.Var{{Index: 0}, {Index: 1}},
		Objective:  []model.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 2}},
		Capacity:   []model.Linear{{Name: "force", Terms: []model.Term{{Var: 0, Coef: 1}}, Sense: model.Equal, RHS: 1}},
		Uniqueness: []model.Linear{{Name: "one", Terms: []model.Term{{Var: 0, Coef: 1}, {Var: 1, Coef: 1}}, Sense: model.LessEq, RHS: 1}},
	}
	res, err := exact.New(exact.DefaultOptions()).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, model.Optimal, res.Status)
	assert.Equal(t, []float64{1, 0}, res.Values)
	assert.Equal(t, 1.0, res.Objective)
}

func TestSolve_DegenerateInstances(t *testing.T) {
	stories := []backlog.Story{
		{ID: 0, BusinessValue: 3, StoryPoints: 1},
		{ID: 1, BusinessValue: 4, StoryPoints: 2, Dependencies: []int{0}},
	}
	tests := []struct {
		name    string
		sprints []backlog.Sprint
		vars    int
	}{
		{"no sprints", nil, 0},
		{"one sprint of capacity 0", []backlog.Sprint{{Ordinal: 1, Capacity: 0, ValueBonus: 5}}, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := backlog.New(stories, tc.sprints)
			require.NoError(t, err)

			for _, mopts := range [][]model.Option{nil, {model.WithWarmStart(roadmap.New(b))}} {
				res, m := solve(t, b, exact.DefaultOptions(), mopts...)
				require.Len(t, m.Vars, tc.vars)
				assert.Equal(t, model.Optimal, res.Status)
				assert.Zero(t, res.Objective)
				require.NotNil(t, res.Values)
				assert.Len(t, res.Values, tc.vars)

				r, err := model.Commit(m, res)
				require.NoError(t, err)
				assert.Zero(t, r.Value())
				assert.Equal(t, []int{0, 1}, r.Stories(backlog.Unassigned))
			}
		})
	}
}
