package dag

import (
	"maps"
	"slices"
)

// CrossingWorkspace provides reusable buffers for crossing calculations to
// avoid repeated allocations. Create with [NewCrossingWorkspace] and reuse
// across multiple calls to [CountCrossingsIdx]. This matters when evaluating
// many candidate orderings during exact decrossing.
//
// The workspace is not safe for concurrent use - each goroutine should have
// its own.
type CrossingWorkspace struct {
	ft  []int // Fenwick tree for counting inversions
	pos []int // Position lookup buffer
}

// NewCrossingWorkspace creates a workspace for counting crossings
// efficiently. The maxWidth parameter should be the maximum number of nodes
// in any single layer across all calls that will use this workspace. Using a
// workspace smaller than needed will cause CountCrossingsIdx to produce
// incorrect results.
func NewCrossingWorkspace(maxWidth int) *CrossingWorkspace {
	return &CrossingWorkspace{
		ft:  make([]int, maxWidth+2),
		pos: make([]int, maxWidth+2),
	}
}

// CountCrossings returns the total number of edge crossings for the given
// layer orderings. It sums the crossings between each pair of consecutive
// layers. The orders map should contain node IDs in left-to-right order for
// each layer. Layers without entries in the map are treated as empty.
//
// This runs in O(L × E log V) time where L is the number of layers, E is
// edges per layer pair, and V is nodes per layer.
func CountCrossings(g *DAG, orders map[int][]string) int {
	layers := slices.Sorted(maps.Keys(orders))
	crossings := 0
	for i := 0; i < len(layers)-1; i++ {
		l := layers[i]
		crossings += CountLayerCrossings(g, orders[l], orders[l+1])
	}
	return crossings
}

// CountLayerCrossings counts edge crossings between two adjacent layers
// using a Fenwick tree (binary indexed tree) for O(E log V) performance
// where E is the number of edges between the layers and V is the number of
// nodes in the lower layer.
//
// Two edges (u1,v1) and (u2,v2) cross if and only if:
//
//	pos(u1) < pos(u2) AND pos(v1) > pos(v2)
//
// This is equivalent to counting inversions in the sequence of target
// positions when edges are sorted by source position.
//
// Returns 0 if either layer is empty or nil.
func CountLayerCrossings(g *DAG, upper, lower []string) int {
	if len(upper) == 0 || len(lower) == 0 {
		return 0
	}

	lowerPos := PosMap(lower)

	type edge struct{ upper, lower int }
	edges := make([]edge, 0, len(upper)*2)
	for i, nodeID := range upper {
		for _, child := range g.Children(nodeID) {
			if pos, ok := lowerPos[child]; ok {
				edges = append(edges, edge{i, pos})
			}
		}
	}
	if len(edges) < 2 {
		return 0
	}

	// Sort edges by source position, then by target position
	slices.SortFunc(edges, func(a, b edge) int {
		if a.upper != b.upper {
			return a.upper - b.upper
		}
		return a.lower - b.lower
	})

	// Count inversions using Fenwick tree
	fenwick := make([]int, len(lower)+1)
	crossings, total := 0, 0
	for _, e := range edges {
		// Query: count edges seen so far with target <= e.lower
		lessOrEqual := 0
		for q := e.lower + 1; q > 0; q -= q & (-q) {
			lessOrEqual += fenwick[q]
		}
		// Crossings = edges seen so far with target > e.lower
		crossings += total - lessOrEqual

		// Update: increment count at target position
		total++
		for idx := e.lower + 1; idx < len(fenwick); idx += idx & (-idx) {
			fenwick[idx]++
		}
	}
	return crossings
}

// CountCrossingsIdx counts crossings using index-based edges and
// permutations. This is an optimized variant for exact decrossing search
// that avoids string lookups by using integer indices throughout.
//
// The edges parameter should be a slice where edges[i] contains the indices
// (into the lower layer) of all children of upper layer node i. The
// upperPerm and lowerPerm parameters are permutations (orderings) of node
// indices. The ws parameter must be a workspace created with
// [NewCrossingWorkspace] with maxWidth >= len(lowerPerm).
//
// Performance: O(E log V) where E is the total number of edges and V is
// len(lowerPerm).
func CountCrossingsIdx(edges [][]int, upperPerm, lowerPerm []int, ws *CrossingWorkspace) int {
	if len(upperPerm) == 0 || len(lowerPerm) == 0 {
		return 0
	}

	// Build position lookup: where is each original index in the permutation?
	for pos, origIdx := range lowerPerm {
		ws.pos[origIdx] = pos
	}

	// Clear Fenwick tree
	limit := len(lowerPerm) + 1
	for i := 0; i < limit; i++ {
		ws.ft[i] = 0
	}

	crossings, total := 0, 0
	for _, upperIdx := range upperPerm {
		targets := edges[upperIdx]
		// Query phase: count crossings for all edges from this source
		for _, targetIdx := range targets {
			targetPos := ws.pos[targetIdx]
			lessOrEqual := 0
			for q := targetPos + 1; q > 0; q -= q & (-q) {
				lessOrEqual += ws.ft[q]
			}
			crossings += total - lessOrEqual
		}

		// Update phase: mark all these edges as processed
		for _, targetIdx := range targets {
			targetPos := ws.pos[targetIdx]
			total++
			for idx := targetPos + 1; idx < limit; idx += idx & (-idx) {
				ws.ft[idx]++
			}
		}
	}
	return crossings
}
