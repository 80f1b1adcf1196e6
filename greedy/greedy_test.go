// SPDX-License-Identifier: MIT

package greedy_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/greedy"
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

// randomBacklog draws a DAG by letting story i depend only on lower ids.
func randomBacklog(t testing.TB, rng *rand.Rand, stories, sprints int) *backlog.Backlog {
	t.Helper()
	ss := make([]backlog.Story, stories)
	for i := range ss {
		ss[i] = backlog.Story{ID: i, BusinessValue: rng.Intn(10), StoryPoints: 1 + rng.Intn(8)}
		for d := 0; d < i; d++ {
			if rng.Float64() < 0.2 {
				ss[i].Dependencies = append(ss[i].Dependencies, d)
			}
		}
	}
	sp := make([]backlog.Sprint, sprints)
	for i := range sp {
		sp[i] = backlog.Sprint{Ordinal: i + 1, Capacity: 5 + rng.Intn(10), ValueBonus: sprints - i}
	}
	b, err := backlog.New(ss, sp)
	require.NoError(t, err)

	return b
}

func TestIdentity_Chain(t *testing.T) {
	b := chainBacklog(t)
	r, err := greedy.Identity(b, roadmap.WithViewChecks())
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		assert.Equal(t, backlog.Scheduled(i), r.Slot(i), "story %d", i)
	}
	assert.True(t, r.IsFeasible())
	assert.Equal(t, 42, r.Value())
}

func TestBuild_ReversedChainFillsBacklog(t *testing.T) {
	b := chainBacklog(t)

	// 3 comes first and cannot be scheduled; 0,1,2 still find their sprints.
	r, err := greedy.Build(b, []int{3, 2, 1, 0})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, r.Stories(backlog.Unassigned))
	assert.Equal(t, backlog.Scheduled(0), r.Slot(0))
	assert.True(t, r.IsFeasible())
}

func TestBuild_PartialAndInvalidOrders(t *testing.T) {
	b := chainBacklog(t)

	r, err := greedy.Build(b, []int{0})
	require.NoError(t, err)
	assert.Equal(t, 1, r.Scheduled())

	_, err = greedy.Build(b, []int{0, 0})
	assert.ErrorIs(t, err, greedy.ErrDuplicateStory)

	_, err = greedy.Build(b, []int{0, 7})
	assert.ErrorIs(t, err, greedy.ErrUnknownStory)
}

// TestBuild_AlwaysFeasible: any order of any acyclic backlog yields a feasible
// roadmap in which every story sits in exactly one slot.
func TestBuild_AlwaysFeasible(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 50; round++ {
		b := randomBacklog(t, rng, 3+rng.Intn(10), 1+rng.Intn(4))
		r, err := greedy.Random(b, rng, roadmap.WithViewChecks())
		require.NoError(t, err)
		require.True(t, r.IsFeasible(), "round %d:\n%s", round, r)

		total := 0
		for _, slot := range b.ScanOrder() {
			total += len(r.Stories(slot))
		}
		assert.Equal(t, b.Len(), total)
	}
}

func TestRandomOrder_IsPermutation(t *testing.T) {
	b := chainBacklog(t)
	order := greedy.RandomOrder(b, rand.New(rand.NewSource(3)))
	assert.ElementsMatch(t, b.StoryIDs(), order)

	again := greedy.RandomOrder(b, rand.New(rand.NewSource(3)))
	assert.Equal(t, order, again)
}

func TestTrials_DeterministicAcrossWorkers(t *testing.T) {
	b := randomBacklog(t, rand.New(rand.NewSource(5)), 12, 4)
	ctx := context.Background()

	one, err := greedy.Trials(ctx, b, greedy.WithTrials(24), greedy.WithSeed(99), greedy.WithWorkers(1))
	require.NoError(t, err)
	many, err := greedy.Trials(ctx, b, greedy.WithTrials(24), greedy.WithSeed(99), greedy.WithWorkers(8))
	require.NoError(t, err)

	assert.Equal(t, one.Values, many.Values)
	assert.Equal(t, one.BestTrial, many.BestTrial)
	assert.True(t, one.Best.Equal(many.Best))
	assert.True(t, one.Best.IsFeasible())
	for _, v := range one.Values {
		assert.LessOrEqual(t, v, one.Best.Value())
	}

	// The identity trial bounds the best from below.
	id, err := greedy.Identity(b)
	require.NoError(t, err)
	assert.Equal(t, id.Value(), one.Values[0])
}

func TestTrials_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := greedy.Trials(ctx, chainBacklog(t), greedy.WithTrials(4))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	assert.Panics(t, func() { greedy.WithTrials(0) })
	assert.Panics(t, func() { greedy.WithWorkers(-1) })
}
