// SPDX-License-Identifier: MIT

package roadmap

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/sprintplan/backlog"
)

// evalMode selects how evaluate reports.
type evalMode int

const (
	// insertion stops at the first violation and also checks dependents,
	// because the story is not yet part of the state.
	insertion evalMode = iota
	// audit collects every violation of a story that is already placed.
	// Dependents are skipped: each of them is audited from its own side.
	audit
)

// evaluate is the single constraint-evaluation routine. It checks story st
// sitting in slot, where load is the points already in that sprint excluding
// st, and appends violations to dst.
//
// Complexity: O(deg(st)).
func (r *Roadmap) evaluate(st backlog.Story, slot backlog.Slot, load int, mode evalMode, dst []Violation) []Violation {
	full := func() bool { return mode == insertion && len(dst) > 0 }

	// 1) Capacity (invariant 1); the Backlog has no capacity.
	if ord, ok := slot.Ordinal(); ok {
		sp, _ := r.b.Sprint(ord)
		if load+st.StoryPoints > sp.Capacity {
			dst = append(dst, Violation{
				Kind: CapacityExceeded, Story: st.ID, Slot: slot,
				Load: load + st.StoryPoints, Capacity: sp.Capacity,
			})
			if full() {
				return dst
			}
		}

		// 2) Dependencies strictly earlier (invariant 2).
		for _, d := range st.Dependencies {
			ds := r.Slot(d)
			if !ds.IsScheduled() || !ds.Before(slot) {
				dst = append(dst, Violation{Kind: DependencyUnmet, Story: st.ID, Slot: slot, Related: d, RelatedSlot: ds})
				if full() {
					return dst
				}
			}
		}
	}

	// 3) Symmetric check: scheduled dependents must stay strictly later.
	if mode == insertion {
		for _, d := range st.Dependents {
			ds := r.Slot(d)
			if ds.IsScheduled() && !slot.Before(ds) {
				dst = append(dst, Violation{Kind: DependentOutOfOrder, Story: st.ID, Slot: slot, Related: d, RelatedSlot: ds})
				if full() {
					return dst
				}
			}
		}
	}

	return dst
}

// Violations audits the whole state and returns every broken invariant:
// view disagreements, stories in several sprints, overloaded sprints (once
// per sprint) and unmet dependencies. Loads are recomputed from the
// sprint→stories view rather than taken from the cache.
//
// Complexity: O(S + E + P) for S stories, E dependency edges, P sprints.
func (r *Roadmap) Violations() []Violation {
	out := r.viewViolations()

	for _, sp := range r.b.Sprints() {
		ids := r.members[sp.Ordinal]
		slot := sp.Slot()
		total := 0
		for _, id := range ids {
			total += r.b.StoryAt(r.b.StoryIndex(id)).StoryPoints
		}
		overloaded := false
		for _, id := range ids {
			st := r.b.StoryAt(r.b.StoryIndex(id))
			for _, v := range r.evaluate(st, slot, total-st.StoryPoints, audit, nil) {
				if v.Kind == CapacityExceeded {
					if overloaded {
						continue
					}
					overloaded = true
				}
				out = append(out, v)
			}
		}
	}

	return out
}

// IsFeasible re-verifies invariants 1–3 over the current views.
func (r *Roadmap) IsFeasible() bool { return len(r.Violations()) == 0 }

// CheckViews verifies that every sprint→stories membership has a matching
// story→sprint entry and vice versa, that no story sits in two sprints, and
// that the cached loads match the memberships. It returns the first problem
// as a *Violation, or nil.
func (r *Roadmap) CheckViews() error {
	if vs := r.viewViolations(); len(vs) > 0 {
		return &vs[0]
	}

	return nil
}

// viewViolations implements CheckViews and feeds Violations.
func (r *Roadmap) viewViolations() []Violation {
	var out []Violation
	seen := make(map[int]int, len(r.placement)) // story → first ordinal seen in members

	// 1) Reverse → forward: every member points back to its sprint.
	for _, sp := range r.b.Sprints() {
		ord := sp.Ordinal
		ids := r.members[ord]
		points := 0
		for i, id := range ids {
			if i > 0 && ids[i-1] >= id {
				out = append(out, Violation{Kind: ViewMismatch, Story: id, Slot: sp.Slot()})
			}
			if first, dup := seen[id]; dup {
				out = append(out, Violation{
					Kind: MultipleAssignment, Story: id, Slot: sp.Slot(), RelatedSlot: backlog.Scheduled(first),
				})
			} else {
				seen[id] = ord
				if got, ok := r.placement[id]; !ok || got != ord {
					out = append(out, Violation{Kind: ViewMismatch, Story: id, Slot: sp.Slot(), RelatedSlot: r.Slot(id)})
				}
			}
			if i := r.b.StoryIndex(id); i >= 0 {
				points += r.b.StoryAt(i).StoryPoints
			}
		}
		if r.load[ord] != points {
			out = append(out, Violation{Kind: ViewMismatch, Slot: sp.Slot(), Load: r.load[ord], Capacity: points})
		}
	}

	// 2) Forward → reverse: every placement has a membership entry.
	for _, id := range r.b.StoryIDs() {
		ord, ok := r.placement[id]
		if !ok {
			continue
		}
		if _, found := slices.BinarySearch(r.members[ord], id); !found {
			out = append(out, Violation{Kind: ViewMismatch, Story: id, Slot: backlog.Scheduled(ord)})
		}
	}

	// 3) Memberships under ordinals that are not real sprints.
	for ord, ids := range r.members {
		if r.b.SprintIndex(ord) < 0 && len(ids) > 0 {
			out = append(out, Violation{Kind: ViewMismatch, Story: ids[0], Slot: backlog.Scheduled(ord)})
		}
	}

	return out
}

// String renders a compact "story→sprint" listing, sprint by sprint.
func (r *Roadmap) String() string {
	s := ""
	for _, slot := range r.b.ScanOrder() {
		s += fmt.Sprintf("%s: %v\n", slot, r.Stories(slot))
	}

	return s
}
