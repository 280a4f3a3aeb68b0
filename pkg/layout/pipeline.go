package layout

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/dag/transform"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/layout/coord"
	"github.com/matzehuels/strata/pkg/layout/decross"
	"github.com/matzehuels/strata/pkg/layout/layering"
)

// Result contains the outputs of a layout run.
type Result struct {
	// Width is the total drawing width, the width of the widest band.
	Width float64

	// Layers holds every node (including dummies inserted for long edges)
	// grouped by layer and sorted by final within-layer order. Coordinates
	// are also written onto the nodes themselves.
	Layers [][]*dag.Node

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains layout execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	Crossings    int
	LayeringTime time.Duration
	DecrossTime  time.Duration
	CoordTime    time.Duration
}

// Pipeline runs the three layout stages in sequence: layer assignment,
// decrossing, and coordinate assignment. Each stage is swappable; zero
// fields select the stage defaults documented on the fields.
type Pipeline struct {
	// Layering assigns an integer layer to every node. Nil selects
	// [layering.NewSimplex].
	Layering layering.Method

	// Decross reorders nodes within layers. Nil selects a two-pass
	// [decross.TwoLayer] sweep over [decross.Opt].
	Decross decross.Decrosser

	// Coord assigns horizontal coordinates. Nil selects [coord.NewQuad].
	Coord coord.Assigner

	// Size supplies node extents for coordinate assignment. Nil gives
	// every node unit width.
	Size coord.SizeFunc

	// BreakCycles removes back edges before layering instead of rejecting
	// cyclic input.
	BreakCycles bool

	// Logger, when non-nil, receives per-stage progress at debug level and
	// is passed through to stages that accept one.
	Logger *log.Logger
}

// Default returns a Pipeline with the default stages: simplex layering, a
// two-layer sweep over the exact operator, and quadratic coordinates.
func Default(size coord.SizeFunc) Pipeline {
	return Pipeline{
		Layering: layering.NewSimplex(),
		Decross:  decross.TwoLayer{Op: decross.Opt{}},
		Coord:    coord.NewQuad(),
		Size:     size,
	}
}

// Run lays out g in place: it assigns Layer, Order, and X to every node,
// inserting dummy nodes where edges span multiple layers. The input must be
// acyclic unless BreakCycles is set.
func (p Pipeline) Run(g *dag.DAG) (*Result, error) {
	if g == nil || g.NodeCount() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "graph is empty")
	}

	if p.BreakCycles {
		if removed := transform.BreakCycles(g); removed > 0 && p.Logger != nil {
			p.Logger.Debugf("removed %d cycle-breaking edges", removed)
		}
	}
	if err := g.Acyclic(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "graph must be acyclic")
	}

	method := p.Layering
	if method == nil {
		method = layering.NewSimplex()
	}
	start := time.Now()
	if err := method.AssignLayers(g); err != nil {
		return nil, err
	}
	layeringTime := time.Since(start)

	transform.Subdivide(g)
	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "graph invalid after layering")
	}

	decrosser := p.Decross
	if decrosser == nil {
		decrosser = decross.TwoLayer{Op: decross.Opt{Logger: p.Logger}, Logger: p.Logger}
	}
	layers := g.OrderedLayers()
	start = time.Now()
	if err := decrosser.Decross(g, layers); err != nil {
		return nil, err
	}
	decrossTime := time.Since(start)
	for _, layer := range layers {
		for i, n := range layer {
			n.Order = i
		}
	}

	assigner := p.Coord
	if assigner == nil {
		assigner = coord.NewQuad()
	}
	size := p.Size
	if size == nil {
		size = func(*dag.Node) float64 { return 1 }
	}
	start = time.Now()
	width, err := assigner.AssignCoords(g, layers, size)
	if err != nil {
		return nil, err
	}
	coordTime := time.Since(start)

	res := &Result{
		Width:  width,
		Layers: layers,
		Stats: Stats{
			NodeCount:    g.NodeCount(),
			EdgeCount:    g.EdgeCount(),
			Crossings:    dag.CountCrossings(g, orderMap(layers)),
			LayeringTime: layeringTime,
			DecrossTime:  decrossTime,
			CoordTime:    coordTime,
		},
	}
	if p.Logger != nil {
		p.Logger.Debugf("layout complete: %d nodes, %d crossings, width %.2f",
			res.Stats.NodeCount, res.Stats.Crossings, res.Width)
	}
	return res, nil
}

func orderMap(layers [][]*dag.Node) map[int][]string {
	m := make(map[int][]string, len(layers))
	for i, layer := range layers {
		m[i] = dag.NodeIDs(layer)
	}
	return m
}
