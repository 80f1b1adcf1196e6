// SPDX-License-Identifier: MIT

package depgraph

import (
	"fmt"
	"slices"
)

// topoSorter holds the state of one topological traversal.
type topoSorter struct {
	graph *Graph
	state map[int]int
	order []int
}

// TopologicalOrder returns all vertices such that every dependency appears
// before the stories that depend on it. Among unrelated vertices the smaller
// id comes first where the DFS allows it; the result is deterministic.
//
// Returns ErrCycleDetected (wrapped with the offending cycle) if the relation
// is cyclic.
//
// Complexity: O(V+E) time, O(V) memory.
func (g *Graph) TopologicalOrder() ([]int, error) {
	if g == nil {
		return nil, nil
	}
	// 1) Initialize sorter state: every vertex starts White.
	t := &topoSorter{
		graph: g,
		state: make(map[int]int, len(g.vertices)),
		order: make([]int, 0, len(g.vertices)),
	}
	// 2) Post-order over dependency edges already yields dependencies first.
	for _, v := range g.vertices {
		if t.state[v] == White {
			if err := t.visit(v); err != nil {
				return nil, fmt.Errorf("TopologicalOrder: cycle %v: %w", g.FindCycle(), err)
			}
		}
	}

	return slices.Clip(t.order), nil
}

// visit appends id after all of its dependencies.
func (t *topoSorter) visit(id int) error {
	switch t.state[id] {
	case Gray:
		return ErrCycleDetected
	case Black:
		return nil
	}
	t.state[id] = Gray
	for _, d := range t.graph.deps[id] {
		if err := t.visit(d); err != nil {
			return err
		}
	}
	t.state[id] = Black
	t.order = append(t.order, id)

	return nil
}
