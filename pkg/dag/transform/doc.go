// Package transform provides graph transformations that prepare a DAG for
// layered layout.
//
// # Overview
//
// Real-world graphs rarely arrive in the canonical form the layout stages
// assume. This package normalizes them:
//
//   - [BreakCycles] removes back edges so near-DAG inputs become acyclic.
//   - [Subdivide] breaks multi-layer edges into chains of single-layer hops
//     by inserting dummy nodes, establishing the consecutive-layer invariant
//     (parent.Layer + 1 == child.Layer) that decrossing and coordinate
//     assignment depend on.
//
// Subdivide must run after layer assignment (it reads Layer values);
// BreakCycles must run before it.
package transform
