package layering

import "github.com/matzehuels/strata/pkg/dag"

// Method assigns every node of the graph a layer, writing Layer values in
// place via [dag.DAG.SetLayers]. After a successful call every edge
// satisfies target.Layer > source.Layer - strictly, never equal, never
// reversed.
type Method interface {
	AssignLayers(g *dag.DAG) error
}

// RankFunc supplies an optional ordering hint for a node: nodes with lower
// rank must not be layered below nodes with higher rank, and equal ranks
// force equal layers. The second return value reports whether the node is
// ranked at all.
//
// Implementations must be pure: deterministic for identical input, with no
// side effects.
type RankFunc func(n *dag.Node) (float64, bool)

// GroupFunc supplies an optional group key for a node: all nodes sharing a
// key are forced onto the same layer. The second return value reports
// whether the node belongs to a group.
//
// Implementations must be pure: deterministic for identical input, with no
// side effects.
type GroupFunc func(n *dag.Node) (string, bool)
