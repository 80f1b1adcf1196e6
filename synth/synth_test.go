// SPDX-License-Identifier: MIT

package synth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sprintplan/synth"
)

func TestGenerate_DeterministicPerSeed(t *testing.T) {
	a, err := synth.Generate(synth.WithSeed(42), synth.WithStories(25), synth.WithDependencyProbability(0.2))
	require.NoError(t, err)
	b, err := synth.Generate(synth.WithSeed(42), synth.WithStories(25), synth.WithDependencyProbability(0.2))
	require.NoError(t, err)

	assert.Equal(t, a.Backlog.Stories(), b.Backlog.Stories())
	assert.Equal(t, a.Backlog.Sprints(), b.Backlog.Sprints())
	assert.Equal(t, a.AcceptedEdges, b.AcceptedEdges)
	assert.Equal(t, a.RejectedEdges, b.RejectedEdges)
	assert.True(t, a.Backlog.IsAcyclic())
}

func TestGenerate_RangesAndDefaults(t *testing.T) {
	res, err := synth.Generate(synth.WithSeed(7))
	require.NoError(t, err)
	b := res.Backlog
	assert.Equal(t, 10, b.Len())
	assert.Equal(t, 4, b.NumSprints())

	for _, s := range b.Stories() {
		assert.GreaterOrEqual(t, s.BusinessValue, 1)
		assert.LessOrEqual(t, s.BusinessValue, 10)
		assert.GreaterOrEqual(t, s.StoryPoints, 1)
		assert.LessOrEqual(t, s.StoryPoints, 8)
	}
	for i, sp := range b.Sprints() {
		assert.Equal(t, i+1, sp.Ordinal)
		assert.Equal(t, 4-i, sp.ValueBonus)
		assert.GreaterOrEqual(t, sp.Capacity, 10)
		assert.LessOrEqual(t, sp.Capacity, 20)
	}
}

// TestGenerate_FullProbability: with p = 1 every pair is tried in both
// directions; the first orientation is kept and the reverse one closes a
// cycle and is rolled back.
func TestGenerate_FullProbability(t *testing.T) {
	res, err := synth.Generate(synth.WithStories(5), synth.WithDependencyProbability(1))
	require.NoError(t, err)
	assert.Equal(t, 10, res.AcceptedEdges)
	assert.Equal(t, 10, res.RejectedEdges)
	assert.True(t, res.Backlog.IsAcyclic())

	s0, _ := res.Backlog.Story(0)
	assert.Equal(t, []int{1, 2, 3, 4}, s0.Dependencies)

	res, err = synth.Generate(synth.WithStories(5), synth.WithDependencyProbability(0))
	require.NoError(t, err)
	assert.Zero(t, res.AcceptedEdges+res.RejectedEdges)
}

func TestGenerate_BonusSchedules(t *testing.T) {
	bonuses := func(t *testing.T, opts ...synth.Option) []int {
		t.Helper()
		res, err := synth.Generate(append(opts, synth.WithSprints(4))...)
		require.NoError(t, err)
		var out []int
		for _, sp := range res.Backlog.Sprints() {
			out = append(out, sp.ValueBonus)
		}
		return out
	}

	assert.Equal(t, []int{4, 3, 2, 1}, bonuses(t, synth.WithBonus(synth.Linear, 0)))
	assert.Equal(t, []int{27, 9, 3, 1}, bonuses(t, synth.WithBonus(synth.Geometric, 3)))
	assert.Equal(t, []int{1, 1, 1, 1}, bonuses(t, synth.WithBonus(synth.Flat, 0)))

	_, err := synth.Generate(synth.WithSprints(80), synth.WithBonus(synth.Geometric, 10))
	assert.ErrorIs(t, err, synth.ErrBonusOverflow)
}

func TestGenerate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		opt  synth.Option
		want error
	}{
		{"no stories", synth.WithStories(0), synth.ErrTooFewStories},
		{"negative sprints", synth.WithSprints(-1), synth.ErrNegativeSprints},
		{"probability", synth.WithDependencyProbability(1.5), synth.ErrInvalidProbability},
		{"value range", synth.WithValueRange(5, 1), synth.ErrInvalidRange},
		{"zero points", synth.WithPointsRange(0, 3), synth.ErrInvalidRange},
		{"capacity", synth.WithCapacityRange(-1, 3), synth.ErrInvalidRange},
		{"ratio", synth.WithBonus(synth.Geometric, 0), synth.ErrInvalidRange},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := synth.Generate(tc.opt)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseBonusSchedule(t *testing.T) {
	for _, s := range []synth.BonusSchedule{synth.Linear, synth.Geometric, synth.Flat} {
		got, err := synth.ParseBonusSchedule(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}
	got, err := synth.ParseBonusSchedule("GEOMETRIC")
	require.NoError(t, err)
	assert.Equal(t, synth.Geometric, got)

	_, err = synth.ParseBonusSchedule("zigzag")
	assert.ErrorIs(t, err, synth.ErrUnknownSchedule)
}
