// SPDX-License-Identifier: MIT

package model_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/greedy"
	"github.com/katalvlaran/sprintplan/model"
	"github.com/katalvlaran/sprintplan/roadmap"
)

// pair: story 1 depends on story 0; both cannot share a sprint of capacity 4.
func pair(t *testing.T) *backlog.Backlog {
	t.Helper()
	b, err := backlog.New(
		[]backlog.Story{
			{ID: 0, BusinessValue: 2, StoryPoints: 3},
			{ID: 1, BusinessValue: 5, StoryPoints: 2, Dependencies: []int{0}},
		},
		[]backlog.Sprint{{Ordinal: 1, Capacity: 4, ValueBonus: 2}, {Ordinal: 2, Capacity: 4, ValueBonus: 1}},
	)
	require.NoError(t, err)

	return b
}

func TestBuild_Shape(t *testing.T) {
	b := pair(t)
	m, err := model.Build(b)
	require.NoError(t, err)

	require.Len(t, m.Vars, 4)
	assert.Equal(t, model.Var{Index: 3, Row: 1, Col: 1, Sprint: 2, Story: 1}, m.Vars[3])
	assert.Equal(t, 3, m.VarIndex(2, 1))
	assert.Equal(t, -1, m.VarIndex(9, 1))
	assert.Len(t, m.Capacity, 2)
	assert.Len(t, m.Uniqueness, 2)
	require.Len(t, m.Precedence, 2)
	assert.Empty(t, m.Precedence[0].Then.Terms, "first sprint has no look-back")
	assert.Equal(t, []model.Term{{Var: 0, Coef: 1}}, m.Precedence[1].Then.Terms)
	assert.Nil(t, m.WarmStart)
	assert.Nil(t, m.WarmStartValues())
	assert.Same(t, b, m.Backlog())
}

func TestBuild_WarmStart(t *testing.T) {
	b := pair(t)
	r, err := greedy.Identity(b)
	require.NoError(t, err)

	m, err := model.Build(b, model.WithWarmStart(r))
	require.NoError(t, err)
	assert.Equal(t, map[int]float64{0: 1, 1: 0, 2: 0, 3: 1}, m.WarmStart)
	ws := m.WarmStartValues()
	assert.Empty(t, m.Violated(ws))
	assert.Equal(t, float64(r.Value()), m.Evaluate(ws))
	assert.Equal(t, 9.0, m.Evaluate(ws))

	_, err = model.Build(pair(t), model.WithWarmStart(r))
	assert.ErrorIs(t, err, model.ErrForeignWarmStart)
}

func TestViolated(t *testing.T) {
	m, err := model.Build(pair(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"prec_1_0_0"}, m.Violated([]float64{0, 1, 0, 0}))
	assert.Equal(t, []string{"uniq_0"}, m.Violated([]float64{1, 0, 1, 0}))
	assert.Equal(t, []string{"cap_0", "prec_1_0_0"}, m.Violated([]float64{1, 1, 0, 0}))
	assert.Empty(t, m.Violated([]float64{0, 0, 0, 0}))
}

func TestCommit(t *testing.T) {
	m, err := model.Build(pair(t))
	require.NoError(t, err)

	r, err := model.Commit(m, model.Result{Status: model.Optimal, Values: []float64{1, 0, 0, 1}, Objective: 9})
	require.NoError(t, err)
	assert.Equal(t, backlog.Scheduled(1), r.Slot(0))
	assert.Equal(t, backlog.Scheduled(2), r.Slot(1))
	assert.True(t, r.IsFeasible())

	// An incumbent returned on timeout is still usable.
	r, err = model.Commit(m, model.Result{Status: model.TimedOut, Values: []float64{0, 0, 1, 0}, Objective: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, r.Value())

	tests := []struct {
		name string
		res  model.Result
		want error
	}{
		{"infeasible", model.Result{Status: model.Infeasible}, model.ErrNoSolution},
		{"timeout without incumbent", model.Result{Status: model.TimedOut}, model.ErrNoSolutionWithinBudget},
		{"optimal without values", model.Result{Status: model.Optimal}, model.ErrInvalidSolution},
		{"short vector", model.Result{Status: model.Optimal, Values: []float64{1}}, model.ErrInvalidSolution},
		{"fractional", model.Result{Status: model.Optimal, Values: []float64{0.5, 0, 0, 0}, Objective: 2}, model.ErrInvalidSolution},
		{"objective mismatch", model.Result{Status: model.Optimal, Values: []float64{1, 0, 0, 1}, Objective: 10}, model.ErrInvalidSolution},
		{"precedence broken", model.Result{Status: model.Feasible, Values: []float64{0, 1, 0, 0}, Objective: 10}, roadmap.ErrConstraintViolation},
		{"story twice", model.Result{Status: model.Feasible, Values: []float64{1, 0, 1, 0}, Objective: 4}, model.ErrInvalidSolution},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := model.Commit(m, tc.res)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestCommit_DegenerateInstances(t *testing.T) {
	stories := []backlog.Story{{ID: 0, BusinessValue: 3, StoryPoints: 1}, {ID: 1, BusinessValue: 4, StoryPoints: 2}}
	tests := []struct {
		name    string
		sprints []backlog.Sprint
	}{
		{"no sprints", nil},
		{"one sprint of capacity 0", []backlog.Sprint{{Ordinal: 1, Capacity: 0, ValueBonus: 5}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, err := backlog.New(stories, tc.sprints)
			require.NoError(t, err)
			m, err := model.Build(b)
			require.NoError(t, err)
			require.Len(t, m.Vars, len(tc.sprints)*len(stories))

			zeros := make([]float64, len(m.Vars))
			assert.Empty(t, m.Violated(zeros))
			r, err := model.Commit(m, model.Result{Status: model.Optimal, Values: zeros})
			require.NoError(t, err)
			assert.Zero(t, r.Value())
			assert.True(t, r.IsFeasible())
			assert.Equal(t, []int{0, 1}, r.Stories(backlog.Unassigned))
		})
	}
}

func TestWriteLP(t *testing.T) {
	m, err := model.Build(pair(t))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, model.WriteLP(&buf, m))
	want := `\ sprintplan: 2 sprints, 2 stories
Maximize
 obj: 4 x_0_0 + 10 x_0_1 + 2 x_1_0 + 5 x_1_1
Subject To
 cap_0: 3 x_0_0 + 2 x_0_1 <= 4
 cap_1: 3 x_1_0 + 2 x_1_1 <= 4
 uniq_0: x_0_0 + x_1_0 <= 1
 uniq_1: x_0_1 + x_1_1 <= 1
 prec_1_0_0: x_0_1 <= 0
 prec_1_0_1: x_1_1 - x_0_0 <= 0
Binary
 x_0_0
 x_0_1
 x_1_0
 x_1_1
End
`
	assert.Equal(t, want, buf.String())
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "Optimal", model.Optimal.String())
	assert.Equal(t, "TimedOut", model.TimedOut.String())
	assert.Equal(t, "<=", model.LessEq.String())
}
