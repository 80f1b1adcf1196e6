// SPDX-License-Identifier: MIT

package roadmap

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/sprintplan/backlog"
)

var (
	// ErrConstraintViolation matches every *Violation via errors.Is.
	ErrConstraintViolation = errors.New("roadmap: constraint violation")

	// ErrUnknownStory indicates a story id that is not in the backlog.
	ErrUnknownStory = errors.New("roadmap: unknown story")

	// ErrUnknownSprint indicates a sprint ordinal that is not in the backlog.
	ErrUnknownSprint = errors.New("roadmap: unknown sprint")

	// ErrNotInSlot indicates MoveStory was called with a source slot the story
	// does not occupy.
	ErrNotInSlot = errors.New("roadmap: story is not in the source slot")
)

// Kind classifies a Violation.
type Kind int

// Violation kinds.
const (
	// CapacityExceeded: the sprint would carry more points than its capacity.
	CapacityExceeded Kind = iota + 1
	// DependencyUnmet: a dependency is not scheduled strictly earlier.
	DependencyUnmet
	// DependentOutOfOrder: an already scheduled dependent sits at or before
	// the target slot.
	DependentOutOfOrder
	// AlreadyAssigned: TryAssign on a story that is already scheduled.
	AlreadyAssigned
	// MultipleAssignment: the same story is a member of several sprints.
	MultipleAssignment
	// ViewMismatch: the story→sprint and sprint→stories views disagree.
	ViewMismatch
)

// String returns a short lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case CapacityExceeded:
		return "capacity exceeded"
	case DependencyUnmet:
		return "dependency unmet"
	case DependentOutOfOrder:
		return "dependent out of order"
	case AlreadyAssigned:
		return "already assigned"
	case MultipleAssignment:
		return "multiple assignment"
	case ViewMismatch:
		return "view mismatch"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Violation is the ConstraintViolation returned by TryAssign and MoveStory,
// and the element type of the feasibility audit. Callers recover from it by
// not applying the move.
type Violation struct {
	Kind  Kind
	Story int
	// Slot is where Story was being placed, or where it sits during an audit.
	Slot backlog.Slot
	// Related is the dependency or dependent involved in precedence kinds.
	Related int
	// RelatedSlot is where Related currently sits.
	RelatedSlot backlog.Slot
	// Load and Capacity describe CapacityExceeded (Load includes Story).
	Load     int
	Capacity int
}

// Error implements error.
func (v *Violation) Error() string {
	switch v.Kind {
	case CapacityExceeded:
		return fmt.Sprintf("roadmap: story %d in %s: %s (%d > %d)", v.Story, v.Slot, v.Kind, v.Load, v.Capacity)
	case DependencyUnmet:
		return fmt.Sprintf("roadmap: story %d in %s: %s: story %d is in %s", v.Story, v.Slot, v.Kind, v.Related, v.RelatedSlot)
	case DependentOutOfOrder:
		return fmt.Sprintf("roadmap: story %d in %s: %s: story %d is in %s", v.Story, v.Slot, v.Kind, v.Related, v.RelatedSlot)
	default:
		return fmt.Sprintf("roadmap: story %d in %s: %s", v.Story, v.Slot, v.Kind)
	}
}

// Is makes errors.Is(v, ErrConstraintViolation) true.
func (v *Violation) Is(target error) bool { return target == ErrConstraintViolation }
