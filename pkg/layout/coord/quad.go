package coord

import (
	"gonum.org/v1/gonum/mat"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/solve"
)

// SizeFunc supplies each node's horizontal extent. Extents must be
// non-negative; dummy nodes typically report a fixed small width.
// Implementations must be pure: deterministic, no side effects.
type SizeFunc func(n *dag.Node) float64

// Assigner assigns a horizontal coordinate to every node, respecting the
// decrossed ordering, and returns the total drawing width.
type Assigner interface {
	AssignCoords(g *dag.DAG, layers [][]*dag.Node, size SizeFunc) (float64, error)
}

// tiny ridge term added to the diagonal of every program. The objective is
// built entirely from coordinate differences, so it is invariant under
// translation; the ridge pins that free mode so the KKT systems stay
// nonsingular. Runs are renormalized afterward, so the bias is discarded.
const ridge = 1e-6

// Quad assigns coordinates by minimizing a quadratic objective per
// independent horizontal band of the drawing:
//
//   - a verticality term (x_parent − x_child)² per edge, weighted by the
//     sum of the per-node-class vertical weights of its endpoints
//   - a curvature term (x_parent − 2·x_node + x_child)² per two-edge path,
//     weighted by the node's per-class curve weight
//   - a closeness term (x_i − x_j)² for every node pair in different
//     components, weighted by a small positive constant - without it the
//     program is only positive-semidefinite and may be ill-posed when
//     disconnected components are present
//
// subject to hard ordering constraints: consecutive nodes of a layer stay
// in their decrossed order, separated by at least half the sum of their
// widths.
//
// # Immutability
//
// Quad is an immutable value: the With* methods validate eagerly and return
// reconfigured copies, so one operator can be shared across concurrent
// layouts.
type Quad struct {
	vertReal, vertDummy   float64
	curveReal, curveDummy float64
	component             float64
	solver                solve.QPSolver
}

// NewQuad returns a Quad with the default weights: verticality (1, 0),
// curvature (0, 1), component closeness 0.02. Real nodes pull their edges
// vertical; dummy nodes keep long edges straight.
func NewQuad() Quad {
	return Quad{
		vertReal:   1,
		vertDummy:  0,
		curveReal:  0,
		curveDummy: 1,
		component:  0.02,
		solver:     solve.ActiveSet{},
	}
}

// WithVertical returns a copy with the verticality weights for real and
// dummy nodes. Weights must be non-negative.
func (q Quad) WithVertical(real, dummy float64) (Quad, error) {
	if real < 0 || dummy < 0 {
		return Quad{}, errors.New(errors.ErrCodeConfiguration,
			"vertical weights must be non-negative, got (%g, %g)", real, dummy)
	}
	q.vertReal, q.vertDummy = real, dummy
	return q, nil
}

// WithCurve returns a copy with the curvature weights for real and dummy
// nodes. Weights must be non-negative.
func (q Quad) WithCurve(real, dummy float64) (Quad, error) {
	if real < 0 || dummy < 0 {
		return Quad{}, errors.New(errors.ErrCodeConfiguration,
			"curve weights must be non-negative, got (%g, %g)", real, dummy)
	}
	q.curveReal, q.curveDummy = real, dummy
	return q, nil
}

// WithComponent returns a copy with the component-closeness weight, which
// must be strictly positive to keep the program well-posed.
func (q Quad) WithComponent(c float64) (Quad, error) {
	if c <= 0 {
		return Quad{}, errors.New(errors.ErrCodeConfiguration,
			"component weight must be positive, got %g", c)
	}
	q.component = c
	return q, nil
}

// WithSolver returns a copy using an alternative QP backend.
func (q Quad) WithSolver(s solve.QPSolver) Quad {
	q.solver = s
	return q
}

func (q Quad) vertWeight(n *dag.Node) float64 {
	if n.IsDummy() {
		return q.vertDummy
	}
	return q.vertReal
}

func (q Quad) curveWeight(n *dag.Node) float64 {
	if n.IsDummy() {
		return q.curveDummy
	}
	return q.curveReal
}

// AssignCoords implements [Assigner]. It writes each node's X coordinate in
// place and returns the total drawing width (the width of the widest band).
// Narrower bands are translated - never rescaled - so they are centered
// within the widest one.
func (q Quad) AssignCoords(g *dag.DAG, layers [][]*dag.Node, size SizeFunc) (float64, error) {
	if q.vertReal == 0 && q.curveReal == 0 {
		return 0, errors.New(errors.ErrCodeDegenerate,
			"verticality and curvature weights for real nodes are both zero")
	}
	if q.vertDummy == 0 && q.curveDummy == 0 {
		return 0, errors.New(errors.ErrCodeDegenerate,
			"verticality and curvature weights for dummy nodes are both zero")
	}
	if len(layers) == 0 {
		return 0, errors.New(errors.ErrCodeInvalidInput, "no layers to assign coordinates to")
	}

	comps := g.ComponentIndex()
	runs := splitRuns(layers, comps)

	type solvedRun struct {
		nodes []*dag.Node
		xs    []float64
		width float64
	}
	solved := make([]solvedRun, 0, len(runs))
	maxWidth := 0.0
	for _, run := range runs {
		nodes, xs, width, err := q.solveRun(g, run, size, comps)
		if err != nil {
			return 0, err
		}
		solved = append(solved, solvedRun{nodes, xs, width})
		if width > maxWidth {
			maxWidth = width
		}
	}

	if maxWidth <= 0 {
		return 0, errors.New(errors.ErrCodeDegenerate,
			"total drawing width is not positive; every node must contribute positive size")
	}

	for _, r := range solved {
		offset := (maxWidth - r.width) / 2
		for i, n := range r.nodes {
			n.X = r.xs[i] + offset
		}
	}
	return maxWidth, nil
}

// splitRuns partitions the layer sequence into maximal contiguous runs such
// that no component spans a run boundary. Dummy-node insertion guarantees a
// component touches every layer between its first and last, so a boundary is
// clean exactly when no component's layer span covers it.
func splitRuns(layers [][]*dag.Node, comps map[string]int) [][][]*dag.Node {
	first := make(map[int]int)
	last := make(map[int]int)
	for li, layer := range layers {
		for _, n := range layer {
			c := comps[n.ID]
			if _, ok := first[c]; !ok {
				first[c] = li
			}
			last[c] = li
		}
	}

	// spanning[b] counts components crossing the boundary between layer b
	// and b+1.
	spanning := make([]int, len(layers)-1)
	for c, f := range first {
		for b := f; b < last[c]; b++ {
			spanning[b]++
		}
	}

	var runs [][][]*dag.Node
	start := 0
	for b := 0; b < len(spanning); b++ {
		if spanning[b] == 0 {
			runs = append(runs, layers[start:b+1])
			start = b + 1
		}
	}
	runs = append(runs, layers[start:])
	return runs
}

// solveRun builds and solves the QP for one run, returning the run's nodes,
// their coordinates normalized so the run's left edge is 0, and the run
// width.
func (q Quad) solveRun(g *dag.DAG, run [][]*dag.Node, size SizeFunc, comps map[string]int) ([]*dag.Node, []float64, float64, error) {
	var nodes []*dag.Node
	idx := make(map[string]int)
	for _, layer := range run {
		for _, n := range layer {
			idx[n.ID] = len(nodes)
			nodes = append(nodes, n)
		}
	}
	n := len(nodes)

	widths := make([]float64, n)
	for i, node := range nodes {
		w := size(node)
		if w < 0 {
			return nil, nil, 0, errors.New(errors.ErrCodeInvalidInput,
				"node %q reported negative size %g", node.ID, w)
		}
		widths[i] = w
	}

	if n == 1 {
		return nodes, []float64{widths[0] / 2}, widths[0], nil
	}

	quad := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		quad.SetSym(i, i, 2*ridge)
	}

	// Verticality: one difference term per edge inside the run.
	for _, e := range g.Edges() {
		i, okI := idx[e.From]
		j, okJ := idx[e.To]
		if !okI || !okJ {
			continue
		}
		w := q.vertWeight(nodes[i]) + q.vertWeight(nodes[j])
		addQuadForm(quad, []int{i, j}, []float64{1, -1}, w)
	}

	// Curvature: one straightness term per parent→node→child path.
	for _, node := range nodes {
		w := q.curveWeight(node)
		if w == 0 {
			continue
		}
		ni := idx[node.ID]
		for _, p := range g.Parents(node.ID) {
			pi, ok := idx[p]
			if !ok {
				continue
			}
			for _, c := range g.Children(node.ID) {
				ci, ok := idx[c]
				if !ok {
					continue
				}
				addQuadForm(quad, []int{pi, ni, ci}, []float64{1, -2, 1}, w)
			}
		}
	}

	// Component closeness: soft pairwise pull between components.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if comps[nodes[i].ID] != comps[nodes[j].ID] {
				addQuadForm(quad, []int{i, j}, []float64{1, -1}, q.component)
			}
		}
	}

	// Ordering and separation constraints, plus a feasible start packing
	// each layer left-to-right.
	p := &solve.QuadraticProgram{
		Q:       quad,
		C:       make([]float64, n),
		Initial: make([]float64, n),
	}
	for _, layer := range run {
		for k, node := range layer {
			i := idx[node.ID]
			if k == 0 {
				p.Initial[i] = widths[i] / 2
				continue
			}
			prev := idx[layer[k-1].ID]
			gap := (widths[prev] + widths[i]) / 2
			p.Constraints = append(p.Constraints, solve.LinearConstraint{
				Terms: []solve.LinearTerm{
					{Var: i, Coeff: 1},
					{Var: prev, Coeff: -1},
				},
				Kind:  solve.GreaterEqual,
				Bound: gap,
			})
			p.Initial[i] = p.Initial[prev] + gap
		}
	}

	xs, err := q.solver.SolveQP(p)
	if err != nil {
		return nil, nil, 0, errors.Wrap(errors.ErrCodeInternal, err, "coordinate solve failed")
	}

	left, right := xs[0]-widths[0]/2, xs[0]+widths[0]/2
	for i := 1; i < n; i++ {
		if l := xs[i] - widths[i]/2; l < left {
			left = l
		}
		if r := xs[i] + widths[i]/2; r > right {
			right = r
		}
	}
	for i := range xs {
		xs[i] -= left
	}
	return nodes, xs, right - left, nil
}

// addQuadForm adds w·(coefs·x)² to the objective ½xᵀQx over the given
// variable indices.
func addQuadForm(q *mat.SymDense, idxs []int, coefs []float64, w float64) {
	if w == 0 {
		return
	}
	for a := 0; a < len(idxs); a++ {
		for b := a; b < len(idxs); b++ {
			q.SetSym(idxs[a], idxs[b], q.At(idxs[a], idxs[b])+2*w*coefs[a]*coefs[b])
		}
	}
}
