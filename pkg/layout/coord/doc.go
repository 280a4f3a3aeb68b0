// Package coord assigns horizontal coordinates to a layered, ordered DAG.
//
// The within-layer ordering produced by decrossing is treated as fixed: an
// assigner may never reorder nodes, only choose where each one sits on the
// horizontal axis. The drawing is partitioned into independent horizontal
// bands (maximal contiguous layer runs no connected component spans across),
// each band is solved on its own, and narrower bands are centered within the
// widest one by translation only.
//
// [Quad] is the quadratic-programming assigner; [SizeFunc] supplies node
// extents so that separation constraints can keep neighbors from
// overlapping.
package coord
