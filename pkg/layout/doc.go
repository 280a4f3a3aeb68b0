// Package layout computes layered drawings of directed acyclic graphs.
//
// A layout runs in three stages, each behind its own interface so stages can
// be swapped independently:
//
//  1. Layering ([layering.Method]) assigns an integer layer to every node so
//     all edges point downward. The default simplex method minimizes total
//     edge span and honors rank and group hints.
//  2. Decrossing ([decross.Decrosser]) permutes nodes within layers to
//     reduce edge crossings. The default sweeps an exact two-layer operator
//     across adjacent layer pairs.
//  3. Coordinate assignment ([coord.Assigner]) places each node on the
//     horizontal axis. The default minimizes a quadratic mix of edge
//     verticality and curvature under hard separation constraints.
//
// [Pipeline] wires the stages together; [Default] gives the standard
// configuration and [Config] selects stages from a TOML file:
//
//	g := dag.New(nil)
//	// ... add nodes and edges ...
//	res, err := layout.Default(nil).Run(g)
//	if err != nil {
//		return err
//	}
//	fmt.Println(res.Width)
//
// After Run, every node (including dummy nodes inserted for edges spanning
// multiple layers) carries its Layer, Order, and X coordinate.
package layout
