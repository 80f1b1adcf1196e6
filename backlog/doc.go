// SPDX-License-Identifier: MIT

// Package backlog is the immutable-after-load domain model of a sprint
// planning instance: stories, sprints and the dependency graph between
// stories.
//
// A Story carries its business value, its effort in story points, the stories
// it depends on and, derived automatically, the stories that depend on it. A
// Sprint is a capacity-bounded time box with a value bonus and a totally
// ordered ordinal.
//
// The non-scheduled state ("Backlog") is not a sprint with a magic ordinal.
// It is the Unassigned Slot, ordered after every real sprint, with no capacity
// limit and a bonus of zero. Backlog.ScanOrder lists the real sprints in
// ascending ordinal followed by Unassigned.
//
// New validates the whole instance before returning: duplicate ids, invalid
// numbers, dangling or self dependencies and dependency cycles are rejected,
// so a Backlog is never partially loaded.
package backlog
