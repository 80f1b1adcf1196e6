// SPDX-License-Identifier: MIT

package roadmap

import (
	"fmt"
	"maps"
	"slices"

	"github.com/katalvlaran/sprintplan/backlog"
)

// Roadmap is the mutable assignment of stories to sprints.
// A story absent from the forward view is in the Backlog.
type Roadmap struct {
	b *backlog.Backlog

	placement map[int]int   // story ID → sprint ordinal (scheduled stories only)
	members   map[int][]int // sprint ordinal → story IDs, ascending
	load      map[int]int   // sprint ordinal → assigned story points

	viewChecks bool
}

// Option configures a Roadmap at construction.
type Option func(*Roadmap)

// WithViewChecks runs CheckViews after every mutation and panics if the two
// views disagree. It is a debug assertion for tests and development builds.
func WithViewChecks() Option {
	return func(r *Roadmap) { r.viewChecks = true }
}

// New returns an empty roadmap over b: every story is in the Backlog.
func New(b *backlog.Backlog, opts ...Option) *Roadmap {
	r := &Roadmap{
		b:         b,
		placement: make(map[int]int, b.Len()),
		members:   make(map[int][]int, b.NumSprints()),
		load:      make(map[int]int, b.NumSprints()),
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

// FromMembers builds a roadmap directly from per-sprint membership lists
// (sprint ordinal → story ids) without checking any invariant. It is the
// entry point for states produced outside TryAssign, such as solver results
// and local-search neighbors; call IsFeasible before trusting the result.
//
// A story listed under several sprints is kept in every list (the forward
// view records the earliest one), so the audit reports MultipleAssignment.
// Unknown story ids or ordinals fail with ErrUnknownStory / ErrUnknownSprint.
func FromMembers(b *backlog.Backlog, members map[int][]int, opts ...Option) (*Roadmap, error) {
	r := New(b, opts...)
	ordinals := slices.Sorted(maps.Keys(members))
	for _, ord := range ordinals {
		if b.SprintIndex(ord) < 0 {
			return nil, fmt.Errorf("FromMembers: sprint %d: %w", ord, ErrUnknownSprint)
		}
		for _, id := range members[ord] {
			st, ok := b.Story(id)
			if !ok {
				return nil, fmt.Errorf("FromMembers: story %d: %w", id, ErrUnknownStory)
			}
			list := r.members[ord]
			pos, dup := slices.BinarySearch(list, id)
			if dup {
				continue
			}
			r.members[ord] = slices.Insert(list, pos, id)
			r.load[ord] += st.StoryPoints
			if _, seen := r.placement[id]; !seen {
				r.placement[id] = ord
			}
		}
	}

	return r, nil
}

// FromAssignments builds a roadmap from a story→ordinal map without checking
// invariants. See FromMembers.
func FromAssignments(b *backlog.Backlog, assignments map[int]int, opts ...Option) (*Roadmap, error) {
	members := make(map[int][]int)
	for id, ord := range assignments {
		members[ord] = append(members[ord], id)
	}

	return FromMembers(b, members, opts...)
}

// Backlog returns the instance this roadmap assigns.
func (r *Roadmap) Backlog() *backlog.Backlog { return r.b }

// Slot returns where story id currently sits. Unknown ids report Unassigned.
func (r *Roadmap) Slot(id int) backlog.Slot {
	if ord, ok := r.placement[id]; ok {
		return backlog.Scheduled(ord)
	}

	return backlog.Unassigned
}

// Stories returns the ids in slot, ascending. For Unassigned these are all
// stories that are not scheduled.
func (r *Roadmap) Stories(slot backlog.Slot) []int {
	ord, scheduled := slot.Ordinal()
	if scheduled {
		return slices.Clone(r.members[ord])
	}
	var out []int
	for _, id := range r.b.StoryIDs() {
		if _, ok := r.placement[id]; !ok {
			out = append(out, id)
		}
	}

	return out
}

// Load returns the story points assigned to the sprint with the given ordinal.
func (r *Roadmap) Load(ordinal int) int { return r.load[ordinal] }

// Scheduled returns how many stories are in real sprints.
func (r *Roadmap) Scheduled() int { return len(r.placement) }

// Assignments returns a copy of the forward view: story id → sprint ordinal.
func (r *Roadmap) Assignments() map[int]int { return maps.Clone(r.placement) }

// TryAssign places story id into slot if every invariant still holds.
//
// It fails with a *Violation (matching ErrConstraintViolation) when
//   - the story is already scheduled (AlreadyAssigned),
//   - the sprint's capacity would be exceeded (CapacityExceeded),
//   - a dependency is not in a strictly earlier real sprint (DependencyUnmet),
//   - an already scheduled dependent sits at or before slot (DependentOutOfOrder).
//
// The Backlog skips the capacity and dependency checks. On any failure the
// roadmap is unchanged. Unknown ids fail with ErrUnknownStory/ErrUnknownSprint.
func (r *Roadmap) TryAssign(id int, slot backlog.Slot) error {
	st, err := r.lookup(id, slot)
	if err != nil {
		return fmt.Errorf("TryAssign: %w", err)
	}
	// 1) Invariant 3: one sprint per story.
	if cur, ok := r.placement[id]; ok {
		return &Violation{Kind: AlreadyAssigned, Story: id, Slot: slot, RelatedSlot: backlog.Scheduled(cur)}
	}
	// 2) Invariants 1 and 2 through the shared evaluator.
	ord, scheduled := slot.Ordinal()
	if vs := r.evaluate(st, slot, r.load[ord], insertion, nil); len(vs) > 0 {
		return &vs[0]
	}
	// 3) Commit to all views together.
	if scheduled {
		r.attach(st, ord)
	}
	r.assertViews()

	return nil
}

// Unassign returns story id to the Backlog. It always succeeds for a known
// story. Every scheduled story that depends on id, directly or transitively,
// is returned to the Backlog as well so that invariant 2 keeps holding.
// The ids that changed slot are returned in ascending order.
func (r *Roadmap) Unassign(id int) ([]int, error) {
	if _, ok := r.b.Story(id); !ok {
		return nil, fmt.Errorf("Unassign: story %d: %w", id, ErrUnknownStory)
	}
	var removed []int
	for _, dep := range append([]int{id}, r.b.TransitiveDependents(id)...) {
		if _, ok := r.placement[dep]; ok {
			r.detach(dep)
			removed = append(removed, dep)
		}
	}
	slices.Sort(removed)
	r.assertViews()

	return removed, nil
}

// MoveStory moves story id from one slot to another. It detaches the story
// (without touching its dependents) and re-inserts it with TryAssign. If the
// insertion fails, the story goes back to from and the roadmap is identical to
// its state before the call.
func (r *Roadmap) MoveStory(id int, from, to backlog.Slot) error {
	st, err := r.lookup(id, to)
	if err != nil {
		return fmt.Errorf("MoveStory: %w", err)
	}
	if cur := r.Slot(id); cur != from {
		return fmt.Errorf("MoveStory: story %d is in %s, not %s: %w", id, cur, from, ErrNotInSlot)
	}
	if from == to {
		return nil
	}

	// 1) Detach from the source sprint (the Backlog needs no detaching).
	fromOrd, fromScheduled := from.Ordinal()
	if fromScheduled {
		r.detach(id)
	}
	// 2) Re-insert; roll back on failure.
	if err = r.TryAssign(id, to); err != nil {
		if fromScheduled {
			r.attach(st, fromOrd)
		}
		r.assertViews()

		return err
	}

	return nil
}

// Value returns Σ businessValue × sprint bonus over scheduled stories.
// The Backlog contributes nothing because its bonus is zero.
func (r *Roadmap) Value() int {
	total := 0
	for id, ord := range r.placement {
		st := r.b.StoryAt(r.b.StoryIndex(id))
		total += st.BusinessValue * r.b.Bonus(backlog.Scheduled(ord))
	}

	return total
}

// Clone returns an independent deep copy.
func (r *Roadmap) Clone() *Roadmap {
	c := &Roadmap{
		b:          r.b,
		placement:  maps.Clone(r.placement),
		members:    make(map[int][]int, len(r.members)),
		load:       maps.Clone(r.load),
		viewChecks: r.viewChecks,
	}
	for ord, ids := range r.members {
		c.members[ord] = slices.Clone(ids)
	}

	return c
}

// Equal reports whether r and o assign the same backlog with identical views.
func (r *Roadmap) Equal(o *Roadmap) bool {
	if r.b != o.b || !maps.Equal(r.placement, o.placement) {
		return false
	}
	if !equalLoads(r.load, o.load) {
		return false
	}
	for _, sp := range r.b.Sprints() {
		if !slices.Equal(r.members[sp.Ordinal], o.members[sp.Ordinal]) {
			return false
		}
	}

	return true
}

// equalLoads compares loads, treating a missing ordinal as zero.
func equalLoads(a, b map[int]int) bool {
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	for k, v := range b {
		if a[k] != v {
			return false
		}
	}

	return true
}

// lookup resolves the story and, for a scheduled slot, validates the sprint.
func (r *Roadmap) lookup(id int, slot backlog.Slot) (backlog.Story, error) {
	i := r.b.StoryIndex(id)
	if i < 0 {
		return backlog.Story{}, fmt.Errorf("story %d: %w", id, ErrUnknownStory)
	}
	if ord, ok := slot.Ordinal(); ok && r.b.SprintIndex(ord) < 0 {
		return backlog.Story{}, fmt.Errorf("sprint %d: %w", ord, ErrUnknownSprint)
	}

	return r.b.StoryAt(i), nil
}

// attach writes story st into sprint ord in every view.
func (r *Roadmap) attach(st backlog.Story, ord int) {
	list := r.members[ord]
	pos, _ := slices.BinarySearch(list, st.ID)
	r.members[ord] = slices.Insert(list, pos, st.ID)
	r.placement[st.ID] = ord
	r.load[ord] += st.StoryPoints
}

// detach removes a scheduled story from every view without cascading.
func (r *Roadmap) detach(id int) {
	ord, ok := r.placement[id]
	if !ok {
		return
	}
	list := r.members[ord]
	if pos, found := slices.BinarySearch(list, id); found {
		r.members[ord] = slices.Delete(list, pos, pos+1)
	}
	if len(r.members[ord]) == 0 {
		delete(r.members, ord)
	}
	delete(r.placement, id)
	r.load[ord] -= r.b.StoryAt(r.b.StoryIndex(id)).StoryPoints
	if r.load[ord] == 0 {
		delete(r.load, ord)
	}
}

// assertViews is the debug assertion behind WithViewChecks.
func (r *Roadmap) assertViews() {
	if !r.viewChecks {
		return
	}
	if err := r.CheckViews(); err != nil {
		panic(fmt.Sprintf("roadmap: view invariant broken: %v", err))
	}
}
