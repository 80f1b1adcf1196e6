// SPDX-License-Identifier: MIT

package greedy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/sprintplan/backlog"
	"github.com/katalvlaran/sprintplan/roadmap"
)

var (
	// ErrDuplicateStory indicates a story id listed twice in an order.
	ErrDuplicateStory = errors.New("greedy: story listed twice")

	// ErrUnknownStory indicates an order entry that is not in the backlog.
	ErrUnknownStory = errors.New("greedy: unknown story")

	// ErrNoSlot is returned if a story is rejected by every slot, Backlog
	// included. It cannot happen for a Backlog accepted by backlog.New.
	ErrNoSlot = errors.New("greedy: no slot accepted the story")
)

// Build places the stories of order one by one into the first slot of
// b.ScanOrder() that accepts them. Stories missing from order stay in the
// Backlog. opts are passed to roadmap.New.
//
// Complexity: O(len(order)·P) TryAssign probes.
func Build(b *backlog.Backlog, order []int, opts ...roadmap.Option) (*roadmap.Roadmap, error) {
	// 1) Validate the order before touching any state.
	seen := make(map[int]struct{}, len(order))
	for _, id := range order {
		if b.StoryIndex(id) < 0 {
			return nil, fmt.Errorf("Build: story %d: %w", id, ErrUnknownStory)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("Build: story %d: %w", id, ErrDuplicateStory)
		}
		seen[id] = struct{}{}
	}

	// 2) First fit, sprints ascending then Backlog.
	r := roadmap.New(b, opts...)
	slots := b.ScanOrder()
	for _, id := range order {
		var last error
		placed := false
		for _, slot := range slots {
			err := r.TryAssign(id, slot)
			if err == nil {
				placed = true
				break
			}
			if !errors.Is(err, roadmap.ErrConstraintViolation) {
				return nil, fmt.Errorf("Build: %w", err)
			}
			last = err
		}
		if !placed {
			return nil, fmt.Errorf("Build: story %d: %w: %w", id, ErrNoSlot, last)
		}
	}

	return r, nil
}

// Identity builds with stories in ascending id order.
func Identity(b *backlog.Backlog, opts ...roadmap.Option) (*roadmap.Roadmap, error) {
	return Build(b, b.StoryIDs(), opts...)
}

// Random builds with a uniform random permutation of the story ids drawn from
// rng. A nil rng uses a fixed default seed.
func Random(b *backlog.Backlog, rng *rand.Rand, opts ...roadmap.Option) (*roadmap.Roadmap, error) {
	return Build(b, RandomOrder(b, rng), opts...)
}

// RandomOrder returns the story ids shuffled with rng.
func RandomOrder(b *backlog.Backlog, rng *rand.Rand) []int {
	order := b.StoryIDs()
	shuffle(order, rng)

	return order
}
