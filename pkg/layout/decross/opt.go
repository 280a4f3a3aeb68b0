package decross

import (
	"math"
	"math/bits"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
)

// Size tiers for the exact two-layer operator. The search is exponential in
// the free layer's node count, so it refuses to run above these limits
// rather than silently degrading.
const (
	// MediumThreshold is the free-layer node count above which [Opt]
	// refuses to run unless Large is set.
	MediumThreshold = 14
	// LargeThreshold is the hard free-layer node count limit; above it the
	// subset table alone would be prohibitive and [Opt] always fails fast.
	LargeThreshold = 20
)

// Opt is the exact two-layer [Operator]: it finds an ordering of the free
// layer with provably minimal crossings against the fixed layer.
//
// # Algorithm
//
// Crossings between two free-layer nodes depend only on their relative
// order, so the problem is a linear ordering problem over a pairwise
// crossing matrix. Opt solves it exactly with dynamic programming over
// subsets of the constrained nodes (the nodes that have at least one link
// into the fixed layer): O(2ⁿ·n) time after an O(2^(n/2)·n) half-mask
// precomputation.
//
// # Unconstrained nodes
//
// Free-layer nodes with no links to the fixed layer cannot affect the
// crossing count. They keep their original slot indices - preserving their
// relative order, interleaved among the constrained nodes - rather than
// being bunched at either end or given an artificial connection point.
//
// # Tie-breaking
//
// When Dist is set, orderings that tie on crossings are compared on total
// edge length (the sum of |freeIndex − fixedIndex| over links), and the
// shorter one wins. Without Dist, ties resolve deterministically by node
// index.
//
// # Size limits
//
// The search fails fast with SIZE_LIMIT_EXCEEDED above MediumThreshold
// (unless Large permits it) or LargeThreshold (always), naming the tier so
// callers can fall back to [Agg].
type Opt struct {
	// Large permits free layers between MediumThreshold and LargeThreshold
	// nodes, at combinatorial cost.
	Large bool
	// Dist enables the minimum-total-edge-length secondary objective.
	Dist bool
	// Logger, when non-nil, receives search statistics at debug level.
	Logger *log.Logger
}

// Apply implements [Operator].
func (o Opt) Apply(g *dag.DAG, top, bottom []*dag.Node, topDown bool) error {
	free, fixed := bottom, top
	if !topDown {
		free, fixed = top, bottom
	}

	n := len(free)
	if n > LargeThreshold {
		return errors.New(errors.ErrCodeSizeLimit,
			"free layer has %d nodes, above the large threshold (%d); use a heuristic operator", n, LargeThreshold)
	}
	if n > MediumThreshold && !o.Large {
		return errors.New(errors.ErrCodeSizeLimit,
			"free layer has %d nodes, above the medium threshold (%d); set Large to permit up to %d", n, MediumThreshold, LargeThreshold)
	}

	targets := linkTargets(g, free, fixed, topDown)

	// Constrained nodes take part in the search; unconstrained ones keep
	// their slots.
	var constrained []int
	for i := range free {
		if len(targets[i]) > 0 {
			constrained = append(constrained, i)
		}
	}
	m := len(constrained)
	if m <= 1 {
		return nil
	}

	cross := crossingMatrix(targets, constrained)
	order := o.solveOrdering(cross, targets, constrained)

	if o.Logger != nil {
		o.Logger.Debugf("exact decross: %d free nodes, %d constrained, %d subsets searched",
			n, m, 1<<m)
	}

	// Constrained nodes, in optimized order, fill the slots the
	// constrained nodes originally occupied.
	reordered := slices.Clone(free)
	for slot, k := range order {
		reordered[constrained[slot]] = free[constrained[k]]
	}
	copy(free, reordered)
	return nil
}

// linkTargets returns, per free-layer node, the sorted positions of its
// fixed-layer neighbors.
func linkTargets(g *dag.DAG, free, fixed []*dag.Node, topDown bool) [][]int {
	fixedPos := dag.NodePosMap(fixed)
	targets := make([][]int, len(free))
	for i, n := range free {
		var neighbors []string
		if topDown {
			neighbors = g.Parents(n.ID)
		} else {
			neighbors = g.Children(n.ID)
		}
		for _, nb := range neighbors {
			if pos, ok := fixedPos[nb]; ok {
				targets[i] = append(targets[i], pos)
			}
		}
		slices.Sort(targets[i])
	}
	return targets
}

// crossingMatrix computes c[i][j], the number of crossings contributed by
// the links of constrained nodes i and j when i is placed left of j. Two
// links cross exactly when the left node's target is right of the right
// node's target.
func crossingMatrix(targets [][]int, constrained []int) [][]int64 {
	m := len(constrained)
	c := make([][]int64, m)
	for i := range c {
		c[i] = make([]int64, m)
	}
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			if i == j {
				continue
			}
			ti, tj := targets[constrained[i]], targets[constrained[j]]
			for _, a := range ti {
				for _, b := range tj {
					if a > b {
						c[i][j]++
					}
				}
			}
		}
	}
	return c
}

// solveOrdering runs the subset DP and returns the optimal ordering as a
// permutation of constrained-node indices: order[slot] = k means the k-th
// constrained node is placed into the slot-th constrained slot.
func (o Opt) solveOrdering(cross [][]int64, targets [][]int, constrained []int) []int {
	m := len(constrained)

	// Half-mask tables: crossSum(k, mask) = Σ_{j∈mask} cross[j][k], looked
	// up in O(1) as low half + high half.
	half := (m + 1) / 2
	lowBits := half
	lowMask := (1 << lowBits) - 1
	highBits := m - half
	sumLow := buildHalfTable(cross, m, 0, lowBits)
	sumHigh := buildHalfTable(cross, m, lowBits, highBits)

	// distCost[k][p]: total edge length when constrained node k lands in
	// the p-th constrained slot. Only needed for the Dist tie-break.
	var distCost [][]int64
	if o.Dist {
		distCost = make([][]int64, m)
		for k := 0; k < m; k++ {
			distCost[k] = make([]int64, m)
			for p := 0; p < m; p++ {
				slot := constrained[p]
				var sum int64
				for _, t := range targets[constrained[k]] {
					sum += int64(abs(slot - t))
				}
				distCost[k][p] = sum
			}
		}
	}

	size := 1 << m
	bestCross := make([]int64, size)
	bestDist := make([]int64, size)
	choice := make([]int8, size)
	for s := 1; s < size; s++ {
		bestCross[s] = math.MaxInt64
	}

	for mask := 0; mask < size-1; mask++ {
		if bestCross[mask] == math.MaxInt64 {
			continue
		}
		p := bits.OnesCount(uint(mask)) // next slot to fill
		for k := 0; k < m; k++ {
			bit := 1 << k
			if mask&bit != 0 {
				continue
			}
			nc := bestCross[mask] + sumLow[k][mask&lowMask]
			if highBits > 0 {
				nc += sumHigh[k][mask>>lowBits]
			}
			nd := bestDist[mask]
			if o.Dist {
				nd += distCost[k][p]
			}
			next := mask | bit
			if nc < bestCross[next] || (nc == bestCross[next] && o.Dist && nd < bestDist[next]) {
				bestCross[next] = nc
				bestDist[next] = nd
				choice[next] = int8(k)
			}
		}
	}

	// Walk choices back from the full set to recover the ordering.
	order := make([]int, m)
	mask := size - 1
	for p := m - 1; p >= 0; p-- {
		k := int(choice[mask])
		order[p] = k
		mask &^= 1 << k
	}
	return order
}

// buildHalfTable precomputes, for each node k, the crossing sums
// Σ_{j∈mask} cross[j+offset][k] for every mask over width positions.
func buildHalfTable(cross [][]int64, m, offset, width int) [][]int64 {
	table := make([][]int64, m)
	size := 1 << width
	for k := 0; k < m; k++ {
		table[k] = make([]int64, max(size, 1))
		for s := 1; s < size; s++ {
			low := s & (-s)
			j := offset + bits.TrailingZeros(uint(low))
			table[k][s] = table[k][s&(s-1)] + cross[j][k]
		}
	}
	return table
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
