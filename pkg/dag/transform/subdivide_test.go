package transform

import (
	"testing"

	"github.com/matzehuels/strata/pkg/dag"
)

func TestSubdivide_NoLongEdges(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "a", Layer: 0})
	g.AddNode(dag.Node{ID: "b", Layer: 1})
	g.AddEdge(dag.Edge{From: "a", To: "b"})

	Subdivide(g)

	if g.NodeCount() != 2 {
		t.Errorf("NodeCount() = %d, want 2 (no dummies)", g.NodeCount())
	}
	if g.EdgeCount() != 1 {
		t.Errorf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
}

func TestSubdivide_SpanningEdge(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "a", Layer: 0})
	g.AddNode(dag.Node{ID: "d", Layer: 3})
	g.AddEdge(dag.Edge{From: "a", To: "d"})

	Subdivide(g)

	if g.NodeCount() != 4 {
		t.Fatalf("NodeCount() = %d, want 4 (2 dummies)", g.NodeCount())
	}
	if g.EdgeCount() != 3 {
		t.Fatalf("EdgeCount() = %d, want 3", g.EdgeCount())
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("Validate() after Subdivide = %v", err)
	}

	// Dummy chain links back to the source node.
	d1, ok := g.Node("a_dummy_1")
	if !ok {
		t.Fatal("a_dummy_1 not found")
	}
	if !d1.IsDummy() || d1.MasterID != "a" || d1.Layer != 1 {
		t.Errorf("a_dummy_1 = %+v, want dummy at layer 1 with master a", d1)
	}
	d2, ok := g.Node("a_dummy_2")
	if !ok {
		t.Fatal("a_dummy_2 not found")
	}
	if got := g.Children("a_dummy_1"); len(got) != 1 || got[0] != "a_dummy_2" {
		t.Errorf("Children(a_dummy_1) = %v, want [a_dummy_2]", got)
	}
	if got := g.Children("a_dummy_2"); len(got) != 1 || got[0] != "d" {
		t.Errorf("Children(a_dummy_2) = %v, want [d]", got)
	}
	if d2.EffectiveID() != "a" {
		t.Errorf("EffectiveID() = %q, want %q", d2.EffectiveID(), "a")
	}
}

func TestSubdivide_PreservesEdgeMetaOnFinalSegment(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "a", Layer: 0})
	g.AddNode(dag.Node{ID: "c", Layer: 2})
	g.AddEdge(dag.Edge{From: "a", To: "c", Meta: dag.Metadata{"weight": 3}})

	Subdivide(g)

	var final *dag.Edge
	for _, e := range g.Edges() {
		if e.To == "c" {
			final = &e
			break
		}
	}
	if final == nil {
		t.Fatal("no edge into c after Subdivide")
	}
	if final.Meta["weight"] != 3 {
		t.Errorf("final segment Meta = %v, want weight:3", final.Meta)
	}
}

func TestSubdivide_IDCollision(t *testing.T) {
	g := dag.New(nil)
	g.AddNode(dag.Node{ID: "a", Layer: 0})
	g.AddNode(dag.Node{ID: "a_dummy_1", Layer: 1}) // real node occupying the dummy name
	g.AddNode(dag.Node{ID: "c", Layer: 2})
	g.AddEdge(dag.Edge{From: "a", To: "c"})

	Subdivide(g)

	if _, ok := g.Node("a_dummy_1__1"); !ok {
		t.Error("collision suffix not applied, a_dummy_1__1 missing")
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSubdivide_Deterministic(t *testing.T) {
	build := func() *dag.DAG {
		g := dag.New(nil)
		g.AddNode(dag.Node{ID: "a", Layer: 0})
		g.AddNode(dag.Node{ID: "b", Layer: 0})
		g.AddNode(dag.Node{ID: "z", Layer: 3})
		g.AddEdge(dag.Edge{From: "a", To: "z"})
		g.AddEdge(dag.Edge{From: "b", To: "z"})
		return g
	}

	g1, g2 := build(), build()
	Subdivide(g1)
	Subdivide(g2)

	ids1 := dag.NodeIDs(g1.Nodes())
	for _, id := range ids1 {
		if _, ok := g2.Node(id); !ok {
			t.Errorf("node %q missing from second run", id)
		}
	}
	if g1.NodeCount() != g2.NodeCount() || g1.EdgeCount() != g2.EdgeCount() {
		t.Error("runs produced different graph sizes")
	}
}
