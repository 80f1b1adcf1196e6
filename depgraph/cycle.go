// SPDX-License-Identifier: MIT

package depgraph

// IsAcyclic reports whether the dependency relation has no directed cycle.
// A nil graph is treated as acyclic.
//
// Complexity: O(V+E) time, O(V) memory.
func (g *Graph) IsAcyclic() bool {
	return len(g.FindCycle()) == 0
}

// FindCycle returns one directed cycle as a closed walk [v0, v1, ..., v0]
// following dependency edges, or nil when the graph is acyclic. Vertices are
// explored in ascending id order, so the reported cycle is deterministic.
func (g *Graph) FindCycle() []int {
	// 1) Nil graph is cycle-free.
	if g == nil {
		return nil
	}

	// 2) Visitation state (White by default) and the current DFS path.
	state := make(map[int]int, len(g.vertices))
	path := make([]int, 0, len(g.vertices))

	// 3) Launch a search from every unvisited vertex (forest traversal).
	for _, v := range g.vertices {
		if state[v] != White {
			continue
		}
		if cycle := g.visit(v, state, &path); cycle != nil {
			return cycle
		}
	}

	return nil
}

// visit explores id depth-first. It returns the first cycle closed by a
// Gray→Gray back edge, or nil once id is fully explored.
func (g *Graph) visit(id int, state map[int]int, path *[]int) []int {
	// 1) Mark in progress and push onto the path.
	state[id] = Gray
	*path = append(*path, id)

	// 2) Follow dependency edges in ascending order.
	for _, nbr := range g.deps[id] {
		switch state[nbr] {
		case White:
			if cycle := g.visit(nbr, state, path); cycle != nil {
				return cycle
			}
		case Gray:
			// Back edge: the segment of the path from nbr to id is a cycle.
			return closeCycle(*path, nbr)
		}
	}

	// 3) Backtrack.
	*path = (*path)[:len(*path)-1]
	state[id] = Black

	return nil
}

// closeCycle copies path[idx(start):] and appends start to close the walk.
func closeCycle(path []int, start int) []int {
	idx := 0
	for i, v := range path {
		if v == start {
			idx = i
			break
		}
	}
	cycle := make([]int, 0, len(path)-idx+1)
	cycle = append(cycle, path[idx:]...)

	return append(cycle, start)
}
