// Package dag provides a directed acyclic graph optimized for layered
// (Sugiyama-style) layouts.
//
// # Overview
//
// Nodes are organized into horizontal layers. The layout pipeline writes
// three fields per node, one stage each: Layer (layer assignment), Order
// (decrossing), X (coordinate assignment). Edges are directed and - after
// [transform.Subdivide] has run - always connect consecutive layers, with
// synthetic dummy nodes standing in for the intermediate segments of long
// edges.
//
// # Crossing Counting
//
// Decrossing needs to count edge crossings between adjacent layers quickly.
// [CountLayerCrossings] and [CountCrossingsIdx] count inversions with a
// Fenwick tree in O(E log V); [CrossingWorkspace] makes the index-based
// variant allocation-free for search loops.
//
// # Components
//
// [DAG.ComponentIndex] partitions the graph into connected components
// ignoring edge direction. Coordinate assignment optimizes each component
// run independently and only couples them through a soft closeness term.
//
// # Concurrency
//
// A DAG is not safe for concurrent mutation. Distinct DAGs can be laid out
// in parallel: operators hold no per-run state, and all mutable layout
// fields live on the graph being processed.
package dag
