package decross

import (
	"slices"

	"github.com/matzehuels/strata/pkg/dag"
)

// Agg is the classic barycenter/median two-layer [Operator]: each
// constrained free-layer node is sorted by an aggregate of its fixed-layer
// neighbor positions. It runs in O(n log n) per application and has no size
// limits, making it the standard fallback when [Opt] reports
// SIZE_LIMIT_EXCEEDED - but it carries no optimality guarantee and can be
// demonstrably suboptimal.
//
// Unconstrained nodes follow the same policy as [Opt]: they keep their
// original slot indices, preserving relative order.
type Agg struct {
	// Median aggregates neighbor positions by median instead of mean.
	// The median is more robust against single far-away neighbors.
	Median bool
}

// Apply implements [Operator].
func (a Agg) Apply(g *dag.DAG, top, bottom []*dag.Node, topDown bool) error {
	free, fixed := bottom, top
	if !topDown {
		free, fixed = top, bottom
	}
	if len(free) < 2 {
		return nil
	}

	targets := linkTargets(g, free, fixed, topDown)

	type keyed struct {
		idx int
		agg float64
	}
	var constrained []keyed
	for i := range free {
		if len(targets[i]) == 0 {
			continue
		}
		constrained = append(constrained, keyed{i, a.aggregate(targets[i])})
	}
	if len(constrained) < 2 {
		return nil
	}

	// Stable sort keeps the original order on aggregate ties, so the
	// result is deterministic.
	slices.SortStableFunc(constrained, func(x, y keyed) int {
		switch {
		case x.agg < y.agg:
			return -1
		case x.agg > y.agg:
			return 1
		default:
			return 0
		}
	})

	reordered := slices.Clone(free)
	slot := 0
	for i := range free {
		if len(targets[i]) == 0 {
			continue
		}
		reordered[i] = free[constrained[slot].idx]
		slot++
	}
	copy(free, reordered)
	return nil
}

func (a Agg) aggregate(positions []int) float64 {
	if a.Median {
		// positions are pre-sorted by linkTargets.
		mid := len(positions) / 2
		if len(positions)%2 == 1 {
			return float64(positions[mid])
		}
		return float64(positions[mid-1]+positions[mid]) / 2
	}
	sum := 0
	for _, p := range positions {
		sum += p
	}
	return float64(sum) / float64(len(positions))
}
