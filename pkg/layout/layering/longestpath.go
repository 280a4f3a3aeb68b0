package layering

import "github.com/matzehuels/strata/pkg/dag"

// LongestPath assigns layers based on depth from the roots: each node lands
// at one plus the maximum layer of any of its parents. It is the cheap,
// always-feasible alternative to [Simplex] - it honors no rank or group
// hints and makes no attempt to minimize edge span, but it never fails on a
// valid DAG.
//
// # Algorithm
//
// A topological traversal (Kahn's algorithm):
//
//  1. Initialize all source nodes (in-degree 0) at layer 0 and enqueue them
//  2. Process the queue: push each child to max(child, parent+1)
//  3. Decrement in-degree counters; enqueue newly zero-degree nodes
//
// Existing layer assignments are overwritten.
//
// # Cycles
//
// LongestPath assumes the graph is acyclic. Nodes on a cycle never reach
// zero in-degree and stay at layer 0. Run [transform.BreakCycles] first, or
// check [dag.DAG.Acyclic], for inputs that may contain cycles.
//
// # Performance
//
// O(V + E) time, O(V) space.
type LongestPath struct{}

// AssignLayers implements [Method]. It never returns an error.
func (LongestPath) AssignLayers(g *dag.DAG) error {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	layers := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if l := layers[curr] + 1; l > layers[child] {
				layers[child] = l
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetLayers(layers)
	return nil
}
