// SPDX-License-Identifier: MIT

package depgraph

import (
	"fmt"
	"slices"
	"sort"
)

// Graph is a directed dependency graph over integer story ids.
//
// An edge story→dependency means "story requires dependency first". The
// reverse direction (dependency→dependents) is derived and maintained by the
// same mutators, so the two adjacency maps always agree.
//
// Graph is not safe for concurrent mutation.
type Graph struct {
	vertices   []int         // ascending ids
	deps       map[int][]int // story → dependencies, ascending
	dependents map[int][]int // dependency → dependents, ascending
	edges      int
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		deps:       make(map[int][]int),
		dependents: make(map[int][]int),
	}
}

// AddVertex registers id. Adding an existing vertex is a no-op.
// Complexity: O(V) worst case (sorted insertion).
func (g *Graph) AddVertex(id int) {
	if g.HasVertex(id) {
		return
	}
	pos, _ := slices.BinarySearch(g.vertices, id)
	g.vertices = slices.Insert(g.vertices, pos, id)
	g.deps[id] = nil
	g.dependents[id] = nil
}

// HasVertex reports whether id was added.
func (g *Graph) HasVertex(id int) bool {
	_, ok := g.deps[id]

	return ok
}

// AddEdge records that story depends on dependency. Both vertices must exist.
// Duplicate edges are ignored. AddEdge does not check for cycles; use
// TryAddEdge or IsAcyclic for that.
func (g *Graph) AddEdge(story, dependency int) error {
	// 1) Reject self-loops before touching any state.
	if story == dependency {
		return fmt.Errorf("AddEdge(%d→%d): %w", story, dependency, ErrSelfDependency)
	}
	// 2) Both endpoints must be known vertices.
	if !g.HasVertex(story) {
		return fmt.Errorf("AddEdge(%d→%d): story %d: %w", story, dependency, story, ErrVertexNotFound)
	}
	if !g.HasVertex(dependency) {
		return fmt.Errorf("AddEdge(%d→%d): dependency %d: %w", story, dependency, dependency, ErrVertexNotFound)
	}
	// 3) Write both directions together.
	g.insertEdge(story, dependency)

	return nil
}

// TryAddEdge inserts story→dependency only if the graph stays acyclic.
// It returns false (and leaves the graph exactly as it was) when the edge
// would close a cycle. Validation failures are returned as errors.
//
// Complexity: O(V+E) per call.
func (g *Graph) TryAddEdge(story, dependency int) (bool, error) {
	if g.HasEdge(story, dependency) {
		return true, nil
	}
	// 1) Trial insert.
	if err := g.AddEdge(story, dependency); err != nil {
		return false, err
	}
	// 2) Validate the whole relation.
	if g.IsAcyclic() {
		return true, nil
	}
	// 3) Roll back the offending edge.
	g.removeEdge(story, dependency)

	return false, nil
}

// HasEdge reports whether story depends directly on dependency.
func (g *Graph) HasEdge(story, dependency int) bool {
	_, found := slices.BinarySearch(g.deps[story], dependency)

	return found
}

// Vertices returns all vertex ids in ascending order.
func (g *Graph) Vertices() []int {
	return slices.Clone(g.vertices)
}

// Dependencies returns the direct dependencies of id in ascending order.
func (g *Graph) Dependencies(id int) []int {
	return slices.Clone(g.deps[id])
}

// Dependents returns the stories that depend directly on id, ascending.
func (g *Graph) Dependents(id int) []int {
	return slices.Clone(g.dependents[id])
}

// Order returns the number of vertices.
func (g *Graph) Order() int { return len(g.vertices) }

// Size returns the number of edges.
func (g *Graph) Size() int { return g.edges }

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	c := &Graph{
		vertices:   slices.Clone(g.vertices),
		deps:       make(map[int][]int, len(g.deps)),
		dependents: make(map[int][]int, len(g.dependents)),
		edges:      g.edges,
	}
	for id, ds := range g.deps {
		c.deps[id] = slices.Clone(ds)
	}
	for id, ds := range g.dependents {
		c.dependents[id] = slices.Clone(ds)
	}

	return c
}

// Ancestors returns every story that transitively depends on id
// (dependents, their dependents, ...), ascending, excluding id itself.
// Complexity: O(V+E).
func (g *Graph) Ancestors(id int) []int {
	seen := map[int]bool{id: true}
	stack := slices.Clone(g.dependents[id])
	var out []int
	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
		stack = append(stack, g.dependents[v]...)
	}
	sort.Ints(out)

	return out
}

// insertEdge writes story→dependency into both adjacency maps (sorted).
func (g *Graph) insertEdge(story, dependency int) {
	fwd := g.deps[story]
	pos, found := slices.BinarySearch(fwd, dependency)
	if found {
		return
	}
	g.deps[story] = slices.Insert(fwd, pos, dependency)

	rev := g.dependents[dependency]
	pos, _ = slices.BinarySearch(rev, story)
	g.dependents[dependency] = slices.Insert(rev, pos, story)
	g.edges++
}

// removeEdge deletes story→dependency from both adjacency maps.
func (g *Graph) removeEdge(story, dependency int) {
	fwd := g.deps[story]
	pos, found := slices.BinarySearch(fwd, dependency)
	if !found {
		return
	}
	g.deps[story] = slices.Delete(fwd, pos, pos+1)

	rev := g.dependents[dependency]
	if pos, found = slices.BinarySearch(rev, story); found {
		g.dependents[dependency] = slices.Delete(rev, pos, pos+1)
	}
	g.edges--
}
