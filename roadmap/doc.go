// SPDX-License-Identifier: MIT

// Package roadmap holds the assignment of stories to sprints and enforces the
// feasibility invariants:
//
//  1. per real sprint, the assigned story points do not exceed its capacity;
//  2. every dependency of a scheduled story is scheduled in a strictly
//     earlier real sprint (the Backlog never satisfies a dependency);
//  3. no story is assigned to more than one sprint.
//
// A Roadmap keeps two views, story→sprint and sprint→stories, plus a cached
// load per sprint. They are written only by the mutators TryAssign, Unassign
// and MoveStory, which always update all three together.
//
// Insertion checks and the post-hoc audit (Violations, IsFeasible) share one
// evaluation routine, so they cannot disagree about what is legal. The audit
// exists for states that did not come through TryAssign: solver results and
// local-search neighbors are built with FromMembers and must pass IsFeasible
// before anyone trusts them.
//
// A Roadmap is owned by one goroutine at a time. Use Clone to hand an
// independent copy to another worker.
package roadmap
