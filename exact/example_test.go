// SPDX-License-Identifier: MIT

package exact_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/exact"
	"github.com/katalvlaran/sprintplan/model"
)

// ExampleSolver_Solve solves the strict chain 0←1←2←3 over four sprints.
func ExampleSolver_Solve() {
	b, _ := backlog.New(
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
	m, _ := model.Build(b)
	res, _ := exact.New(exact.DefaultOptions()).Solve(context.Background(), m)
	r, err := model.Commit(m, res)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(res.Status, r.Value())
	fmt.Print(r)
	// Output:
	// Optimal 42
	// Sprint 0: [0]
	// Sprint 1: [1]
	// Sprint 2: [2]
	// Sprint 3: [3]
	// Backlog: []
}
