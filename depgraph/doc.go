// SPDX-License-Identifier: MIT

// Package depgraph stores the story dependency relation and guards it against
// cycles.
//
// What:
//
//   - Graph keeps forward edges (story → dependency) and the derived reverse
//     edges (dependency → dependent) in one structure; the two directions are
//     only ever written together.
//   - IsAcyclic / FindCycle run a depth-first search with three-color marking
//     (White, Gray, Black). Reaching a Gray vertex again is a back edge and
//     therefore a cycle.
//   - TryAddEdge inserts a candidate edge, re-runs the check and rolls the
//     edge back when it closes a cycle. Callers never observe the rejected edge.
//   - TopologicalOrder lists every vertex after all of its dependencies.
//
// Complexity:
//
//   - IsAcyclic, FindCycle, TopologicalOrder: O(V+E) time, O(V) memory.
//   - TryAddEdge: O(V+E) per candidate edge. That is fine for planning-sized
//     backlogs; very large synthetic graphs would need incremental
//     reachability instead.
//
// Errors:
//
//   - ErrSelfDependency   an edge from a vertex to itself
//   - ErrVertexNotFound   an edge endpoint that was never added
//   - ErrCycleDetected    TopologicalOrder on a cyclic graph
package depgraph
