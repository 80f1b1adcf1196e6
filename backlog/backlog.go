// SPDX-License-Identifier: MIT

package backlog

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/katalvlaran/sprintplan/depgraph"
)

// Backlog is a validated planning instance. It is read-only after New.
type Backlog struct {
	stories     []Story     // ascending ID
	storyIndex  map[int]int // ID → position in stories
	sprints     []Sprint    // ascending Ordinal
	sprintIndex map[int]int // Ordinal → position in sprints
	graph       *depgraph.Graph
}

// New validates stories and sprints and returns the instance.
//
// Stories are reordered by ascending ID and sprints by ascending Ordinal.
// Dependents are derived from the dependency lists; any Dependents supplied
// by the caller are discarded.
//
// Errors (wrapped with the offending record): ErrNoStories, ErrDuplicateStory,
// ErrNegativeValue, ErrNonPositivePoints, ErrDuplicateDependency,
// ErrSelfDependency, ErrUnknownDependency, ErrDuplicateSprint,
// ErrNegativeCapacity, ErrNegativeBonus, ErrCycleDetected.
//
// Complexity: O(S log S + P log P + E log E) for S stories, P sprints, E edges.
func New(stories []Story, sprints []Sprint) (*Backlog, error) {
	if len(stories) == 0 {
		return nil, ErrNoStories
	}
	b := &Backlog{
		stories:     make([]Story, 0, len(stories)),
		storyIndex:  make(map[int]int, len(stories)),
		sprints:     make([]Sprint, 0, len(sprints)),
		sprintIndex: make(map[int]int, len(sprints)),
		graph:       depgraph.New(),
	}

	// 1) Stories: field checks and deep copies.
	for _, s := range stories {
		if err := validateStory(s); err != nil {
			return nil, err
		}
		if _, dup := b.storyIndex[s.ID]; dup {
			return nil, fmt.Errorf("story %d: %w", s.ID, ErrDuplicateStory)
		}
		b.storyIndex[s.ID] = -1
		b.graph.AddVertex(s.ID)
		s.Dependencies = slices.Clone(s.Dependencies)
		s.Dependents = nil
		b.stories = append(b.stories, s)
	}
	sort.Slice(b.stories, func(i, j int) bool { return b.stories[i].ID < b.stories[j].ID })
	for i, s := range b.stories {
		b.storyIndex[s.ID] = i
	}

	// 2) Dependency edges: every id must resolve to a loaded story.
	for i := range b.stories {
		s := &b.stories[i]
		sort.Ints(s.Dependencies)
		for k, d := range s.Dependencies {
			if k > 0 && s.Dependencies[k-1] == d {
				return nil, fmt.Errorf("story %d: dependency %d: %w", s.ID, d, ErrDuplicateDependency)
			}
			if d == s.ID {
				return nil, fmt.Errorf("story %d: %w", s.ID, ErrSelfDependency)
			}
			if _, ok := b.storyIndex[d]; !ok {
				return nil, fmt.Errorf("story %d: dependency %d: %w", s.ID, d, ErrUnknownDependency)
			}
			if err := b.graph.AddEdge(s.ID, d); err != nil {
				return nil, fmt.Errorf("story %d: %w", s.ID, err)
			}
		}
	}

	// 3) The relation must be a DAG; loading aborts otherwise.
	if cycle := b.graph.FindCycle(); cycle != nil {
		return nil, fmt.Errorf("stories %v: %w: %w", cycle, ErrCycleDetected, depgraph.ErrCycleDetected)
	}

	// 4) Derive the reverse relation from the graph.
	for i := range b.stories {
		b.stories[i].Dependents = b.graph.Dependents(b.stories[i].ID)
	}

	// 5) Sprints.
	for _, sp := range sprints {
		if sp.Capacity < 0 {
			return nil, fmt.Errorf("sprint %d: capacity %d: %w", sp.Ordinal, sp.Capacity, ErrNegativeCapacity)
		}
		if sp.ValueBonus < 0 {
			return nil, fmt.Errorf("sprint %d: bonus %d: %w", sp.Ordinal, sp.ValueBonus, ErrNegativeBonus)
		}
		if _, dup := b.sprintIndex[sp.Ordinal]; dup {
			return nil, fmt.Errorf("sprint %d: %w", sp.Ordinal, ErrDuplicateSprint)
		}
		b.sprintIndex[sp.Ordinal] = -1
		b.sprints = append(b.sprints, sp)
	}
	sort.Slice(b.sprints, func(i, j int) bool { return b.sprints[i].Ordinal < b.sprints[j].Ordinal })
	for i, sp := range b.sprints {
		b.sprintIndex[sp.Ordinal] = i
	}

	return b, nil
}

// validateStory checks the scalar fields of one story.
func validateStory(s Story) error {
	if s.BusinessValue < 0 {
		return fmt.Errorf("story %d: value %d: %w", s.ID, s.BusinessValue, ErrNegativeValue)
	}
	if s.StoryPoints <= 0 {
		return fmt.Errorf("story %d: points %d: %w", s.ID, s.StoryPoints, ErrNonPositivePoints)
	}

	return nil
}

// Len returns the number of stories.
func (b *Backlog) Len() int { return len(b.stories) }

// NumSprints returns the number of real sprints.
func (b *Backlog) NumSprints() int { return len(b.sprints) }

// Stories returns a copy of all stories in ascending ID order.
func (b *Backlog) Stories() []Story {
	out := make([]Story, len(b.stories))
	for i, s := range b.stories {
		out[i] = s.clone()
	}

	return out
}

// StoryIDs returns all story ids in ascending order.
func (b *Backlog) StoryIDs() []int {
	ids := make([]int, len(b.stories))
	for i, s := range b.stories {
		ids[i] = s.ID
	}

	return ids
}

// Story returns the story with the given id.
func (b *Backlog) Story(id int) (Story, bool) {
	i, ok := b.storyIndex[id]
	if !ok {
		return Story{}, false
	}

	return b.stories[i].clone(), true
}

// StoryAt returns the story at position i of the ascending-ID order.
// The returned slices must not be modified.
func (b *Backlog) StoryAt(i int) Story { return b.stories[i] }

// StoryIndex returns the position of id in the ascending-ID order, or -1.
func (b *Backlog) StoryIndex(id int) int {
	if i, ok := b.storyIndex[id]; ok {
		return i
	}

	return -1
}

// Sprints returns a copy of the real sprints in ascending ordinal order.
func (b *Backlog) Sprints() []Sprint { return slices.Clone(b.sprints) }

// Sprint returns the real sprint with the given ordinal.
func (b *Backlog) Sprint(ordinal int) (Sprint, bool) {
	i, ok := b.sprintIndex[ordinal]
	if !ok {
		return Sprint{}, false
	}

	return b.sprints[i], true
}

// SprintAt returns the sprint at position i of the ascending-ordinal order.
func (b *Backlog) SprintAt(i int) Sprint { return b.sprints[i] }

// SprintIndex returns the position of ordinal among the real sprints, or -1.
func (b *Backlog) SprintIndex(ordinal int) int {
	if i, ok := b.sprintIndex[ordinal]; ok {
		return i
	}

	return -1
}

// ScanOrder lists every slot a story can be placed in: the real sprints in
// ascending ordinal, then Unassigned. Greedy construction relies on this
// order as its tie-break.
func (b *Backlog) ScanOrder() []Slot {
	out := make([]Slot, 0, len(b.sprints)+1)
	for _, sp := range b.sprints {
		out = append(out, sp.Slot())
	}

	return append(out, Unassigned)
}

// Bonus returns the value multiplier of slot: the sprint bonus, or 0 for the
// Backlog and for unknown ordinals.
func (b *Backlog) Bonus(slot Slot) int {
	ord, ok := slot.Ordinal()
	if !ok {
		return 0
	}
	sp, ok := b.Sprint(ord)
	if !ok {
		return 0
	}

	return sp.ValueBonus
}

// IsAcyclic re-runs cycle detection over the loaded dependency graph.
// It is always true for a Backlog returned by New.
func (b *Backlog) IsAcyclic() bool { return b.graph.IsAcyclic() }

// Graph returns a copy of the dependency graph.
func (b *Backlog) Graph() *depgraph.Graph { return b.graph.Clone() }

// TopologicalOrder returns the story ids with every dependency before its
// dependents.
func (b *Backlog) TopologicalOrder() []int {
	order, err := b.graph.TopologicalOrder()
	if errors.Is(err, depgraph.ErrCycleDetected) {
		// New rejects cycles, so this is unreachable for a loaded Backlog.
		return b.StoryIDs()
	}

	return order
}

// TransitiveDependents returns every story that depends on id directly or
// indirectly, ascending.
func (b *Backlog) TransitiveDependents(id int) []int { return b.graph.Ancestors(id) }

// TotalPoints returns the sum of story points over all stories.
func (b *Backlog) TotalPoints() int {
	total := 0
	for _, s := range b.stories {
		total += s.StoryPoints
	}

	return total
}

// clone deep-copies the slices of s.
func (s Story) clone() Story {
	s.Dependencies = slices.Clone(s.Dependencies)
	s.Dependents = slices.Clone(s.Dependents)

	return s
}
