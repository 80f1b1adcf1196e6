// SPDX-License-Identifier: MIT

// Package model translates a backlog into a 0-1 optimization model and
// defines the contract with an exact solver.
//
// Variables: one binary x[s][j] per (real sprint s, story j), 1 iff story j
// is delivered in sprint s. The Backlog has no variables: a story whose
// variables are all 0 is unscheduled. Variables are numbered sprint-major,
// index = row·S + col, with rows in ascending ordinal and columns in
// ascending story id.
//
// Objective (maximize):  Σ_s Σ_j value_j · bonus_s · x[s][j]
//
// Constraints:
//
//	capacity   per sprint s:            Σ_j points_j · x[s][j] ≤ capacity_s
//	uniqueness per story j:             Σ_s x[s][j] ≤ 1
//	precedence per edge j→d, sprint s:  x[s][j] = 1 ⟹ Σ_{s′<s} x[s′][d] = 1
//
// Precedence is kept as an implication; WriteLP emits its linear form
// x[s][j] − Σ_{s′<s} x[s′][d] ≤ 0. For the first sprint the look-back sum is
// empty, which forbids a story with dependencies from starting there.
//
// A Model, with an optional warm start taken from a greedy roadmap, is
// everything a Solver receives. Commit turns a Result back into a roadmap
// and re-validates it with roadmap.IsFeasible before returning it.
package model
