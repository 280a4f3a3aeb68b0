// Package layering assigns every node of a DAG to a discrete layer, the
// first stage of the layered layout pipeline.
//
// # Methods
//
//   - [Simplex]: integer-linear-program layering that minimizes total edge
//     span (and therefore the dummy-node count), honoring optional rank and
//     group hints. Fails with LAYOUT_INFEASIBLE when hints contradict edge
//     precedence.
//   - [LongestPath]: O(V+E) topological layering. No hints, no optimality,
//     never infeasible - the fallback the error-handling contract points
//     callers to.
//
// # Invariant
//
// After either method, every edge satisfies target.Layer > source.Layer.
// Edges may still span several layers; run [transform.Subdivide] before
// decrossing.
package layering
