package layering

import (
	"testing"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
)

func buildGraph(t *testing.T, ids []string, edges [][2]string) *dag.DAG {
	t.Helper()
	g := dag.New(nil)
	for _, id := range ids {
		if err := g.AddNode(dag.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(dag.Edge{From: e[0], To: e[1]}); err != nil {
			t.Fatal(err)
		}
	}
	return g
}

func layerOf(t *testing.T, g *dag.DAG, id string) int {
	t.Helper()
	n, ok := g.Node(id)
	if !ok {
		t.Fatalf("node %q not found", id)
	}
	return n.Layer
}

// checkPrecedence asserts every edge advances at least one layer and the
// lowest layer is 0.
func checkPrecedence(t *testing.T, g *dag.DAG) {
	t.Helper()
	for _, e := range g.Edges() {
		src, dst := layerOf(t, g, e.From), layerOf(t, g, e.To)
		if dst < src+1 {
			t.Errorf("edge %s->%s: layers %d -> %d, want strictly increasing", e.From, e.To, src, dst)
		}
	}
	min := -1
	for _, n := range g.Nodes() {
		if min == -1 || n.Layer < min {
			min = n.Layer
		}
	}
	if min != 0 {
		t.Errorf("minimum layer = %d, want 0", min)
	}
}

func TestSimplex_Chain(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c"}, [][2]string{{"a", "b"}, {"b", "c"}})

	if err := NewSimplex().AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}

	checkPrecedence(t, g)
	if layerOf(t, g, "a") != 0 || layerOf(t, g, "b") != 1 || layerOf(t, g, "c") != 2 {
		t.Errorf("layers = %d, %d, %d, want 0, 1, 2",
			layerOf(t, g, "a"), layerOf(t, g, "b"), layerOf(t, g, "c"))
	}
}

func TestSimplex_MinimizesSpan(t *testing.T) {
	// Diamond with a long side: a -> b -> d and a -> c -> d plus a
	// shortcut a -> d. The span-minimal layering keeps b and c on layer 1.
	g := buildGraph(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"a", "c"}, {"b", "d"}, {"c", "d"}, {"a", "d"},
	})

	if err := NewSimplex().AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}

	checkPrecedence(t, g)
	totalSpan := 0
	for _, e := range g.Edges() {
		totalSpan += layerOf(t, g, e.To) - layerOf(t, g, e.From)
	}
	// Optimal: b, c at 1, d at 2, giving spans 1+1+1+1+2 = 6.
	if totalSpan != 6 {
		t.Errorf("total span = %d, want 6", totalSpan)
	}
}

func TestSimplex_PullsSourcesDown(t *testing.T) {
	// A late entrant: x feeds only the bottom node. Longest-path layering
	// would pin x at layer 0 with span 2; span minimization floats it to
	// layer 1.
	g := buildGraph(t, []string{"a", "b", "c", "x"}, [][2]string{
		{"a", "b"}, {"b", "c"}, {"x", "c"},
	})

	if err := NewSimplex().AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}

	checkPrecedence(t, g)
	if layerOf(t, g, "x") != 1 {
		t.Errorf("x.Layer = %d, want 1", layerOf(t, g, "x"))
	}
}

func TestSimplex_Disconnected(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "p", "q", "lone"}, [][2]string{
		{"a", "b"}, {"p", "q"},
	})

	if err := NewSimplex().AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}

	checkPrecedence(t, g)
	// Each component starts at layer 0; the isolated node settles there too.
	if layerOf(t, g, "lone") != 0 {
		t.Errorf("lone.Layer = %d, want 0", layerOf(t, g, "lone"))
	}
}

func TestSimplex_OnlyIsolatedNodes(t *testing.T) {
	// No edges and no hints leaves every variable unconstrained; the
	// program is skipped entirely and all nodes land on layer 0.
	g := buildGraph(t, []string{"x", "y", "z"}, nil)

	if err := NewSimplex().AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}
	for _, id := range []string{"x", "y", "z"} {
		if layerOf(t, g, id) != 0 {
			t.Errorf("%s.Layer = %d, want 0", id, layerOf(t, g, id))
		}
	}
}

func TestSimplex_RankOrdering(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"c", "d"},
	})

	ranks := map[string]float64{"b": 1, "c": 2}
	s := NewSimplex().WithRank(func(n *dag.Node) (float64, bool) {
		r, ok := ranks[n.ID]
		return r, ok
	})

	if err := s.AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}

	checkPrecedence(t, g)
	// Rank ordering requires layer(b) <= layer(c).
	if layerOf(t, g, "b") > layerOf(t, g, "c") {
		t.Errorf("b.Layer = %d > c.Layer = %d, rank ordering violated",
			layerOf(t, g, "b"), layerOf(t, g, "c"))
	}
}

func TestSimplex_RankTiesShareLayer(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "p", "q"}, [][2]string{
		{"a", "b"}, {"p", "q"},
	})

	ranks := map[string]float64{"b": 1, "q": 1}
	s := NewSimplex().WithRank(func(n *dag.Node) (float64, bool) {
		r, ok := ranks[n.ID]
		return r, ok
	})

	if err := s.AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}

	if layerOf(t, g, "b") != layerOf(t, g, "q") {
		t.Errorf("tied ranks on different layers: b=%d, q=%d",
			layerOf(t, g, "b"), layerOf(t, g, "q"))
	}
}

func TestSimplex_GroupsShareLayer(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "d"}, [][2]string{
		{"a", "b"}, {"a", "c"}, {"c", "d"},
	})

	groups := map[string]string{"b": "mid", "d": "mid"}
	s := NewSimplex().WithGroup(func(n *dag.Node) (string, bool) {
		k, ok := groups[n.ID]
		return k, ok
	})

	if err := s.AssignLayers(g); err != nil {
		t.Fatalf("AssignLayers() error = %v", err)
	}

	checkPrecedence(t, g)
	if layerOf(t, g, "b") != layerOf(t, g, "d") {
		t.Errorf("grouped nodes on different layers: b=%d, d=%d",
			layerOf(t, g, "b"), layerOf(t, g, "d"))
	}
}

func TestSimplex_RankConflictInfeasible(t *testing.T) {
	// Edge precedence forces layer(a) < layer(b), ranks demand the reverse.
	g := buildGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	ranks := map[string]float64{"a": 2, "b": 1}
	s := NewSimplex().WithRank(func(n *dag.Node) (float64, bool) {
		r, ok := ranks[n.ID]
		return r, ok
	})

	err := s.AssignLayers(g)
	if !errors.Is(err, errors.ErrCodeInfeasible) {
		t.Errorf("AssignLayers() error = %v, want LAYOUT_INFEASIBLE", err)
	}
}

func TestSimplex_GroupConflictInfeasible(t *testing.T) {
	// a -> b with both forced onto the same layer.
	g := buildGraph(t, []string{"a", "b"}, [][2]string{{"a", "b"}})

	s := NewSimplex().WithGroup(func(n *dag.Node) (string, bool) {
		return "all", true
	})

	err := s.AssignLayers(g)
	if !errors.Is(err, errors.ErrCodeInfeasible) {
		t.Errorf("AssignLayers() error = %v, want LAYOUT_INFEASIBLE", err)
	}
}

func TestSimplex_Idempotent(t *testing.T) {
	g := buildGraph(t, []string{"a", "b", "c", "x"}, [][2]string{
		{"a", "b"}, {"b", "c"}, {"x", "c"},
	})

	s := NewSimplex()
	if err := s.AssignLayers(g); err != nil {
		t.Fatal(err)
	}
	first := map[string]int{}
	for _, n := range g.Nodes() {
		first[n.ID] = n.Layer
	}

	if err := s.AssignLayers(g); err != nil {
		t.Fatal(err)
	}
	for _, n := range g.Nodes() {
		if n.Layer != first[n.ID] {
			t.Errorf("node %s moved from layer %d to %d on re-run", n.ID, first[n.ID], n.Layer)
		}
	}
}

func TestSimplex_EmptyGraph(t *testing.T) {
	if err := NewSimplex().AssignLayers(dag.New(nil)); err != nil {
		t.Errorf("AssignLayers(empty) = %v, want nil", err)
	}
}
