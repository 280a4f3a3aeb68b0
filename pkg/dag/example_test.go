package dag_test

import (
	"fmt"

	"github.com/matzehuels/strata/pkg/dag"
)

func ExampleDAG_basic() {
	// Create a simple chain: app → lib → core
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app", Layer: 0})
	_ = g.AddNode(dag.Node{ID: "lib", Layer: 1})
	_ = g.AddNode(dag.Node{ID: "core", Layer: 2})
	_ = g.AddEdge(dag.Edge{From: "app", To: "lib"})
	_ = g.AddEdge(dag.Edge{From: "lib", To: "core"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Layers:", g.LayerCount())
	// Output:
	// Nodes: 3
	// Edges: 2
	// Layers: 3
}

func ExampleDAG_traversal() {
	// Build a graph with fan-out: app links to auth and cache
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "app", Layer: 0})
	_ = g.AddNode(dag.Node{ID: "auth", Layer: 1})
	_ = g.AddNode(dag.Node{ID: "cache", Layer: 1})
	_ = g.AddEdge(dag.Edge{From: "app", To: "auth"})
	_ = g.AddEdge(dag.Edge{From: "app", To: "cache"})

	// Query relationships
	fmt.Println("Children of app:", g.Children("app"))
	fmt.Println("Parents of auth:", g.Parents("auth"))
	fmt.Println("Out-degree of app:", g.OutDegree("app"))
	// Output:
	// Children of app: [auth cache]
	// Parents of auth: [app]
	// Out-degree of app: 2
}

func ExampleCountLayerCrossings() {
	// Two edges that swap sides cross exactly once.
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "a", Layer: 0})
	_ = g.AddNode(dag.Node{ID: "b", Layer: 0})
	_ = g.AddNode(dag.Node{ID: "c", Layer: 1})
	_ = g.AddNode(dag.Node{ID: "d", Layer: 1})
	_ = g.AddEdge(dag.Edge{From: "a", To: "d"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "c"})

	fmt.Println("Crossings:", dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"c", "d"}))
	fmt.Println("After swap:", dag.CountLayerCrossings(g, []string{"a", "b"}, []string{"d", "c"}))
	// Output:
	// Crossings: 1
	// After swap: 0
}
