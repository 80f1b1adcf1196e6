// SPDX-License-Identifier: MIT

package backlog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for instance validation. New wraps them with the offending
// record; branch with errors.Is.
var (
	ErrNoStories           = errors.New("backlog: no stories")
	ErrDuplicateStory      = errors.New("backlog: duplicate story id")
	ErrDuplicateSprint     = errors.New("backlog: duplicate sprint ordinal")
	ErrNegativeValue       = errors.New("backlog: business value is negative")
	ErrNonPositivePoints   = errors.New("backlog: story points must be positive")
	ErrNegativeCapacity    = errors.New("backlog: sprint capacity is negative")
	ErrNegativeBonus       = errors.New("backlog: sprint value bonus is negative")
	ErrUnknownDependency   = errors.New("backlog: dependency on unknown story")
	ErrSelfDependency      = errors.New("backlog: story depends on itself")
	ErrCycleDetected       = errors.New("backlog: dependency cycle")
	ErrDuplicateDependency = errors.New("backlog: duplicate dependency")
)

// Story is a unit of backlog work.
type Story struct {
	// ID is the stable key of the story.
	ID int
	// BusinessValue is the value delivered when the story is scheduled (≥ 0).
	BusinessValue int
	// StoryPoints is the effort the story consumes from a sprint (> 0).
	StoryPoints int
	// Dependencies are the stories that must be scheduled strictly earlier.
	Dependencies []int
	// Dependents is the derived reverse relation. It is filled by New;
	// values supplied by callers are ignored.
	Dependents []int
}

// String renders the story the way planning reports list it.
func (s Story) String() string {
	return fmt.Sprintf("Story %d (business value: %d | story points: %d | dependencies: %s)",
		s.ID, s.BusinessValue, s.StoryPoints, listStories(s.Dependencies))
}

// listStories formats ids as "Story a, Story b" or "None".
func listStories(ids []int) string {
	if len(ids) == 0 {
		return "None"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "Story " + strconv.Itoa(id)
	}

	return strings.Join(parts, ", ")
}

// Sprint is a capacity-bounded time box.
type Sprint struct {
	// Ordinal orders sprints; smaller means earlier.
	Ordinal int
	// Capacity is the story-point budget (≥ 0).
	Capacity int
	// ValueBonus multiplies the business value delivered in this sprint.
	ValueBonus int
}

// Slot returns the scheduled slot of this sprint.
func (s Sprint) Slot() Slot { return Scheduled(s.Ordinal) }

// String renders the sprint header.
func (s Sprint) String() string {
	return fmt.Sprintf("Sprint %d (capacity: %d, bonus: %d)", s.Ordinal, s.Capacity, s.ValueBonus)
}

// Slot is where a story sits: a real sprint, or the Backlog.
// The zero value is Unassigned.
type Slot struct {
	ordinal   int
	scheduled bool
}

// Unassigned is the Backlog slot: not scheduled into any sprint's capacity.
var Unassigned = Slot{}

// Scheduled returns the slot of the real sprint with the given ordinal.
func Scheduled(ordinal int) Slot { return Slot{ordinal: ordinal, scheduled: true} }

// IsScheduled reports whether the slot is a real sprint.
func (s Slot) IsScheduled() bool { return s.scheduled }

// Ordinal returns the sprint ordinal and true, or 0 and false for the Backlog.
func (s Slot) Ordinal() (int, bool) { return s.ordinal, s.scheduled }

// Before reports whether s is a real sprint strictly earlier than other.
// The Backlog is after every sprint, so nothing is before it in a way that
// satisfies a dependency and it is never before anything.
func (s Slot) Before(other Slot) bool {
	if !s.scheduled {
		return false
	}
	if !other.scheduled {
		return true
	}

	return s.ordinal < other.ordinal
}

// String renders "Sprint n" or "Backlog".
func (s Slot) String() string {
	if !s.scheduled {
		return "Backlog"
	}

	return "Sprint " + strconv.Itoa(s.ordinal)
}
