package decross

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
)

// Decrosser reorders nodes within the layers of a laid-out graph to reduce
// edge crossings. Implementations permute the inner slices of layers in
// place and must treat layers as fixed sets of slots: never move a node
// across layers, never add or remove nodes. An identity permutation is a
// valid (if low-quality) implementation.
//
// Decrossers hold no per-run state beyond their immutable configuration, so
// one value can be shared across concurrent layouts.
type Decrosser interface {
	Decross(g *dag.DAG, layers [][]*dag.Node) error
}

// Operator is the two-layer contract: given two adjacent layers and the
// direction of the sweep, reorder the free layer in place to reduce
// crossings against the held-fixed layer. When topDown is true the bottom
// layer is reordered holding top fixed; otherwise the top layer is
// reordered holding bottom fixed.
type Operator interface {
	Apply(g *dag.DAG, top, bottom []*dag.Node, topDown bool) error
}

// TwoLayer is a [Decrosser] that sweeps an [Operator] across all adjacent
// layer pairs, alternating top-down and bottom-up, and keeps the best
// ordering seen across all sweeps.
type TwoLayer struct {
	// Op is the two-layer operator applied to each adjacent pair.
	Op Operator
	// Passes is the number of down+up sweep rounds. Zero selects 2.
	Passes int
	// Logger, when non-nil, receives per-pass crossing counts at debug
	// level.
	Logger *log.Logger
}

// Decross implements [Decrosser].
func (t TwoLayer) Decross(g *dag.DAG, layers [][]*dag.Node) error {
	if t.Op == nil {
		return errors.New(errors.ErrCodeConfiguration, "TwoLayer requires an Operator")
	}
	if len(layers) < 2 {
		return nil
	}

	passes := t.Passes
	if passes <= 0 {
		passes = 2
	}

	best := snapshot(layers)
	bestCrossings := totalCrossings(g, layers)

	record := func() {
		if c := totalCrossings(g, layers); c < bestCrossings {
			bestCrossings = c
			best = snapshot(layers)
		}
	}

	for pass := 0; pass < passes; pass++ {
		for i := 1; i < len(layers); i++ {
			if err := t.Op.Apply(g, layers[i-1], layers[i], true); err != nil {
				return err
			}
		}
		record()

		for i := len(layers) - 2; i >= 0; i-- {
			if err := t.Op.Apply(g, layers[i], layers[i+1], false); err != nil {
				return err
			}
		}
		record()

		if t.Logger != nil {
			t.Logger.Debugf("decross pass %d/%d: best %d crossings", pass+1, passes, bestCrossings)
		}
		if bestCrossings == 0 {
			break
		}
	}

	restore(layers, best)
	return nil
}

// totalCrossings sums crossings over all adjacent layer pairs for the
// current in-slice ordering.
func totalCrossings(g *dag.DAG, layers [][]*dag.Node) int {
	total := 0
	for i := 0; i < len(layers)-1; i++ {
		total += dag.CountLayerCrossings(g, dag.NodeIDs(layers[i]), dag.NodeIDs(layers[i+1]))
	}
	return total
}

func snapshot(layers [][]*dag.Node) [][]*dag.Node {
	snap := make([][]*dag.Node, len(layers))
	for i, layer := range layers {
		snap[i] = append([]*dag.Node(nil), layer...)
	}
	return snap
}

func restore(layers, snap [][]*dag.Node) {
	for i := range layers {
		copy(layers[i], snap[i])
	}
}
