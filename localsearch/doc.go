// SPDX-License-Identifier: MIT

// Package localsearch explores the swap neighborhood of a roadmap.
//
// A roadmap is viewed as a boolean Matrix: one row per real sprint (ascending
// ordinal), one column per story (ascending id), cell (s, j) true iff story j
// sits in sprint s. A column without a true cell is a story in the Backlog.
//
// A Move exchanges the values of two cells. Only pairs whose values differ
// are moves, and each unordered pair is listed once, with A before B in
// (row, col) order. Within one column a move relocates a story between two
// sprints or between a sprint and the Backlog; across columns it hands one
// story's cell to the other.
//
// Applying a move can break capacity, precedence or the one-sprint-per-story
// rule, so a neighbor is never assumed feasible: Neighbors and Improve only
// keep states that pass roadmap.IsFeasible.
//
// Complexity: a matrix with k true cells out of n has k·(n−k) moves.
// Materializing one neighbor costs O(S + P); checking it costs O(S + E + P).
package localsearch
