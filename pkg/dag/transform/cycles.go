package transform

import (
	"slices"
	"strings"

	"github.com/matzehuels/strata/pkg/dag"
)

// BreakCycles removes back edges until the graph is acyclic and returns the
// number of edges removed. Traversal starts from source nodes first so that
// edges pointing "forward" from roots are preferred over the back edges that
// close cycles.
//
// The layout pipeline requires a DAG; BreakCycles is the optional pre-step
// for inputs that are almost-but-not-quite acyclic. Which edge of a cycle is
// dropped depends on traversal order from the sorted node set, so the result
// is deterministic for a fixed graph.
func BreakCycles(g *dag.DAG) int {
	const (
		white = iota
		gray
		black
	)

	color := make(map[string]int)
	var backEdges [][2]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		for _, child := range g.Children(node) {
			switch color[child] {
			case white:
				dfs(child)
			case gray:
				backEdges = append(backEdges, [2]string{node, child})
			}
		}
		color[node] = black
	}

	for _, n := range sortedByID(g.Sources()) {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, n := range sortedByID(g.Nodes()) {
		if color[n.ID] == white {
			dfs(n.ID)
		}
	}

	for _, e := range backEdges {
		g.RemoveEdge(e[0], e[1])
	}
	return len(backEdges)
}

func sortedByID(nodes []*dag.Node) []*dag.Node {
	sorted := slices.Clone(nodes)
	slices.SortFunc(sorted, func(a, b *dag.Node) int {
		return strings.Compare(a.ID, b.ID)
	})
	return sorted
}
