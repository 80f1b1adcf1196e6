// SPDX-License-Identifier: MIT

// Package synth generates random planning instances for benchmarks, tests
// and the "generate" command.
//
// Stories get uniform values and points, sprints get uniform capacities and
// a bonus schedule (linear or geometric, earlier sprints worth more).
// Dependencies are sampled like an Erdős–Rényi digraph: every ordered pair
// (i, j), i ≠ j, is tried with probability p in a fixed order (i asc, j asc).
// Each candidate edge is inserted, the graph is re-checked for cycles and the
// edge is rolled back if it closes one. Rollbacks are counted, not reported
// as errors.
//
// Determinism: for a fixed seed and options, Generate returns the same
// instance on every platform.
//
// Complexity: O(n²) edge trials, each O(n + e) for the cycle check.
package synth
