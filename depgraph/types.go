// SPDX-License-Identifier: MIT

package depgraph

import "errors"

// Vertex visitation states used by the depth-first searches.
const (
	White = iota // not visited yet
	Gray         // on the current recursion stack
	Black        // fully explored
)

var (
	// ErrSelfDependency indicates an edge whose endpoints are the same story.
	ErrSelfDependency = errors.New("depgraph: story depends on itself")

	// ErrVertexNotFound indicates an edge endpoint that is not in the graph.
	ErrVertexNotFound = errors.New("depgraph: vertex not found")

	// ErrCycleDetected indicates that the dependency relation is not acyclic.
	ErrCycleDetected = errors.New("depgraph: cycle detected")
)
