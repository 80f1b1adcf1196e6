// SPDX-License-Identifier: MIT

package roadmap_test

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/roadmap"
)

// ExampleRoadmap_TryAssign shows a rejected insertion: the dependency of
// story 1 sits in the same sprint, not strictly earlier.
func ExampleRoadmap_TryAssign() {
	b, _ := backlog.New(
		[]backlog.Story{
			{ID: 0, BusinessValue: 2, StoryPoints: 3},
			{ID: 1, BusinessValue: 5, StoryPoints: 2, Dependencies: []int{0}},
		},
		[]backlog.Sprint{{Ordinal: 1, Capacity: 6, ValueBonus: 2}, {Ordinal: 2, Capacity: 6, ValueBonus: 1}},
	)
	r := roadmap.New(b)
	_ = r.TryAssign(0, backlog.Scheduled(1))

	err := r.TryAssign(1, backlog.Scheduled(1))
	var v *roadmap.Violation
	fmt.Println(errors.As(err, &v), v.Kind)

	_ = r.TryAssign(1, backlog.Scheduled(2))
	fmt.Print(r)
	fmt.Println("value:", r.Value())
	// Output:
	// true dependency unmet
	// Sprint 1: [0]
	// Sprint 2: [1]
	// Backlog: []
	// value: 9
}
