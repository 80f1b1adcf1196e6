// SPDX-License-Identifier: MIT

// Package greedy builds feasible roadmaps by first-fit insertion.
//
// Build takes the stories in the order given and, for each one, scans the
// real sprints in ascending ordinal with the Backlog last, placing the story
// in the first slot whose TryAssign succeeds. The Backlog always accepts a
// story whose dependents are unscheduled, and a dependent is only ever
// scheduled after its dependencies, so every story finds a slot and the
// result is feasible for any order of an acyclic backlog.
//
// The scan order is part of the contract: it decides which sprint a story
// lands in when several could take it.
//
// Identity uses ascending story id. Random shuffles the ids first
// (Fisher–Yates over a caller-supplied *rand.Rand). Trials runs many
// randomized constructions in parallel and keeps the best; each trial owns
// its roadmap and its own RNG stream derived from the base seed, so the
// outcome does not depend on the number of workers.
//
// Complexity: Build is O(S·P) TryAssign probes for S stories and P sprints.
package greedy
