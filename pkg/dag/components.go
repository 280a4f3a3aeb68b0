package dag

import (
	"maps"
	"slices"
)

// ComponentIndex assigns every node to a connected component, ignoring edge
// direction. The returned map maps node IDs to component numbers starting at
// 0. Component numbering is deterministic: components are numbered in the
// order their lexicographically-smallest member ID is visited.
//
// Coordinate assignment treats components independently except for a soft
// closeness term, so stable numbering keeps layouts reproducible.
func (d *DAG) ComponentIndex() map[string]int {
	comp := make(map[string]int, len(d.nodes))
	next := 0

	var visit func(id string, c int)
	visit = func(id string, c int) {
		comp[id] = c
		for _, nb := range d.outgoing[id] {
			if _, seen := comp[nb]; !seen {
				visit(nb, c)
			}
		}
		for _, nb := range d.incoming[id] {
			if _, seen := comp[nb]; !seen {
				visit(nb, c)
			}
		}
	}

	for _, id := range slices.Sorted(maps.Keys(d.nodes)) {
		if _, seen := comp[id]; !seen {
			visit(id, next)
			next++
		}
	}
	return comp
}

// ComponentCount returns the number of connected components, ignoring edge
// direction. Returns 0 for an empty graph.
func (d *DAG) ComponentCount() int {
	idx := d.ComponentIndex()
	max := -1
	for _, c := range idx {
		if c > max {
			max = c
		}
	}
	return max + 1
}

// Components returns the connected components of the graph, ignoring edge
// direction. Each component's nodes are sorted by ID, and components are
// ordered by their number from [DAG.ComponentIndex].
func (d *DAG) Components() [][]*Node {
	idx := d.ComponentIndex()
	count := 0
	for _, c := range idx {
		if c+1 > count {
			count = c + 1
		}
	}
	comps := make([][]*Node, count)
	for _, id := range slices.Sorted(maps.Keys(d.nodes)) {
		c := idx[id]
		comps[c] = append(comps[c], d.nodes[id])
	}
	return comps
}
