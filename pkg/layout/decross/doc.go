// Package decross reorders nodes within layers to reduce edge crossings,
// the second stage of the layered layout pipeline.
//
// # The Decrossing Problem
//
// A pair of edges between two adjacent layers crosses when their endpoints
// interleave. Finding a layer ordering with minimum total crossings is
// NP-hard, so the package splits the problem the classic way: a sweep
// ([TwoLayer]) repeatedly fixes one layer and reorders its neighbor with a
// two-layer [Operator].
//
// # Operators
//
//   - [Opt]: exact minimal-crossing ordering via dynamic programming over
//     subsets. Provably optimal per layer pair, but exponential - it fails
//     fast with SIZE_LIMIT_EXCEEDED above its medium/large node thresholds.
//   - [Agg]: mean or median barycenter heuristic, O(n log n), no limits,
//     no guarantee.
//
// Both operators leave nodes without links to the fixed layer in their
// original slots, preserving their relative order.
//
// # Contract
//
// A [Decrosser] permutes nodes within layers only. It never moves a node
// across layers and never adds or removes nodes; layers are fixed sets of
// slots. Operators are immutable values safe to share across concurrent
// layouts.
package decross
