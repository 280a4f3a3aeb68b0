package transform

import (
	"fmt"

	"github.com/matzehuels/strata/pkg/dag"
)

// Subdivide breaks edges that span multiple layers into sequences of
// single-layer edges connected by synthetic dummy nodes.
//
// Subdivide ensures every edge in the graph connects nodes in consecutive
// layers (parent.Layer + 1 == child.Layer), the invariant that decrossing
// and coordinate assignment rely on. Any edge spanning multiple layers is
// replaced by a chain of [dag.NodeKindDummy] nodes:
//
//	Before: a (layer 0) → d (layer 3)  [spans 3 layers]
//	After:  a → a_dummy_1 → a_dummy_2 → d  [3 single-layer edges]
//
// Each dummy node maintains a MasterID field linking back to the original
// source node, allowing renderers to treat a subdivided edge as one logical
// polyline.
//
// # Node IDs
//
// Dummy nodes are assigned deterministic IDs of the form "master_dummy_layer"
// (e.g., "a_dummy_1"). If a collision occurs, a numeric suffix is appended
// ("a_dummy_1__2"). All generated IDs are tracked to guarantee uniqueness.
// Layout determinism requires generated IDs to be reproducible, so no
// randomness is involved.
//
// # Edge Metadata
//
// Subdivide preserves edge metadata only on the final edge in each
// subdivided chain (the edge entering the original target). Intermediate
// dummy edges carry no metadata.
//
// # Nil Handling
//
// Subdivide panics if g is nil. If g is empty, the function returns
// immediately.
//
// # Performance
//
// Time complexity is O(V·D) where V is nodes and D is the maximum depth
// (layer count), as each edge may spawn dummies up to the depth.
func Subdivide(g *dag.DAG) {
	gen := newIDGen(g.Nodes())
	var toRemove []dag.Edge
	for _, e := range g.Edges() {
		src, srcOK := g.Node(e.From)
		dst, dstOK := g.Node(e.To)
		if !srcOK || !dstOK || dst.Layer <= src.Layer+1 {
			continue
		}

		toRemove = append(toRemove, e)
		prevID := src.ID
		for layer := src.Layer + 1; layer < dst.Layer; layer++ {
			prevID = addDummy(g, gen, prevID, src.ID, layer)
		}
		if err := g.AddEdge(dag.Edge{From: prevID, To: dst.ID, Meta: e.Meta}); err != nil {
			panic(err)
		}
	}

	for _, e := range toRemove {
		g.RemoveEdge(e.From, e.To)
	}
}

func addDummy(g *dag.DAG, gen *idGen, from, master string, layer int) string {
	id := gen.next(master, layer)
	if err := g.AddNode(dag.Node{
		ID:       id,
		Layer:    layer,
		Kind:     dag.NodeKindDummy,
		MasterID: master,
	}); err != nil {
		panic(err)
	}
	if err := g.AddEdge(dag.Edge{From: from, To: id}); err != nil {
		panic(err)
	}
	return id
}

type idGen struct {
	used map[string]struct{}
}

func newIDGen(nodes []*dag.Node) *idGen {
	m := make(map[string]struct{}, len(nodes)*2)
	for _, n := range nodes {
		m[n.ID] = struct{}{}
	}
	return &idGen{used: m}
}

func (gen *idGen) next(base string, layer int) string {
	prefix := fmt.Sprintf("%s_dummy_%d", base, layer)
	id := prefix
	for i := 1; ; i++ {
		if _, exists := gen.used[id]; !exists {
			gen.used[id] = struct{}{}
			return id
		}
		id = fmt.Sprintf("%s__%d", prefix, i)
	}
}
