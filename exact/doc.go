// SPDX-License-Identifier: MIT

// Package exact is a depth-first branch-and-bound solver for the 0-1 models
// built by package model. It is the bundled implementation of model.Solver;
// any other solver (an LP/MIP engine fed by model.WriteLP) can replace it.
//
// Rationale (succinct):
//  1. Variables are grouped by the model's "at most one" constraints (one
//     group per story). A search level decides a whole group: which variable
//     is 1, or none.
//  2. Groups are branched in topological order of the precedence
//     implications, so the dependencies of a story are decided before the
//     story itself and every implication is checked exactly when it fires.
//  3. Every linear constraint keeps a [lo, hi] activity range over fixed and
//     free variables; a branch is cut as soon as a range can no longer meet
//     its right-hand side.
//  4. Bound: objective so far + Σ over undecided groups of the largest
//     positive objective coefficient in the group. It never underestimates,
//     so pruning with bound ≤ incumbent + eps keeps the optimum.
//  5. Branching order inside a group: objective coefficient descending
//     (index tie-break), "none" last. Deterministic.
//  6. The warm start, when it satisfies the model, is the first incumbent;
//     otherwise the all-zero assignment is tried.
//  7. Budgets: a node limit, a wall-clock limit and ctx are probed every
//     1024 nodes. Hitting one returns the incumbent instead of failing.
//
// Complexity: exponential in the number of groups in the worst case;
// O(k) work per node for k constraint entries touched by the fixed group.
package exact
