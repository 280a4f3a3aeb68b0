package layering

import (
	stderrors "errors"
	"maps"
	"slices"
	"strings"

	"github.com/matzehuels/strata/pkg/dag"
	"github.com/matzehuels/strata/pkg/errors"
	"github.com/matzehuels/strata/pkg/solve"
)

// Simplex assigns layers by solving an integer linear program that
// minimizes total edge span - the number of dummy nodes the downstream
// subdivision step will have to insert. This is the network-simplex
// layering of the classic Sugiyama pipeline.
//
// # Formulation
//
// One non-negative integer variable per node (its layer). The objective
// maximizes Σ (outDegree(n) − inDegree(n))·layer(n), which equals
// −Σ (layer(target) − layer(source)) over edges: maximizing it minimizes
// total edge span. Constraints:
//
//   - every edge (u, v): layer(v) − layer(u) >= 1
//   - ranked nodes, chained over adjacent pairs in sorted rank order:
//     equal ranks force equal layers, differing ranks force
//     layer(lower-ranked) <= layer(higher-ranked)
//   - grouped nodes, chained pairwise within each group: equal layers
//
// Chaining only adjacent pairs is sufficient by transitivity of the linear
// constraints.
//
// Layers are shifted after solving so the minimum is exactly 0, which also
// pins nodes the program leaves free (isolated, unranked, ungrouped nodes
// settle at layer 0).
//
// # Immutability
//
// Simplex is an immutable value: the With* methods return reconfigured
// copies, so one operator can be shared across concurrent layouts.
type Simplex struct {
	rank   RankFunc
	group  GroupFunc
	solver solve.LPSolver
}

// NewSimplex returns a Simplex layering operator with no rank or group
// hints, backed by gonum's simplex solver.
func NewSimplex() Simplex {
	return Simplex{solver: solve.Simplex{}}
}

// WithRank returns a copy of the operator using r as the rank accessor.
// Pass nil to clear.
func (s Simplex) WithRank(r RankFunc) Simplex {
	s.rank = r
	return s
}

// WithGroup returns a copy of the operator using gf as the group accessor.
// Pass nil to clear.
func (s Simplex) WithGroup(gf GroupFunc) Simplex {
	s.group = gf
	return s
}

// WithSolver returns a copy of the operator using an alternative LP backend.
func (s Simplex) WithSolver(sv solve.LPSolver) Simplex {
	s.solver = sv
	return s
}

// AssignLayers implements [Method]. It fails with a LAYOUT_INFEASIBLE error
// if the supplied rank/group hints contradict edge precedence (or each
// other); with no hints present an infeasible result is reported as an
// internal invariant violation, since precedence-only systems over a valid
// DAG are always feasible.
func (s Simplex) AssignLayers(g *dag.DAG) error {
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	slices.SortFunc(nodes, func(a, b *dag.Node) int {
		return strings.Compare(a.ID, b.ID)
	})

	varOf := make(map[string]int, len(nodes))
	for i, n := range nodes {
		varOf[n.ID] = i
	}

	p := &solve.LinearProgram{
		NumVars:   len(nodes),
		Objective: make([]float64, len(nodes)),
		Maximize:  true,
		Integer:   true,
	}
	for i, n := range nodes {
		p.Objective[i] = float64(g.OutDegree(n.ID) - g.InDegree(n.ID))
	}

	for _, e := range g.Edges() {
		p.Constraints = append(p.Constraints, solve.LinearConstraint{
			Terms: []solve.LinearTerm{
				{Var: varOf[e.To], Coeff: 1},
				{Var: varOf[e.From], Coeff: -1},
			},
			Kind:  solve.GreaterEqual,
			Bound: 1,
		})
	}

	hinted := false
	hinted = s.addRankConstraints(p, nodes, varOf) || hinted
	hinted = s.addGroupConstraints(p, nodes, varOf) || hinted

	// Nodes untouched by any edge, rank, or group appear in no constraint
	// row, and the backend rejects programs with all-zero columns. Solve
	// only the constrained variables; the rest are pinned to layer 0.
	compact, numUsed := compactVars(p)
	layers := make(map[string]int, len(nodes))
	if numUsed == 0 {
		for _, n := range nodes {
			layers[n.ID] = 0
		}
		g.SetLayers(layers)
		return nil
	}

	x, err := s.solver.SolveLP(p)
	switch {
	case stderrors.Is(err, solve.ErrInfeasible):
		if hinted {
			return errors.New(errors.ErrCodeInfeasible,
				"conflicting rank/group constraints: no layer assignment honors both the supplied hints and edge precedence")
		}
		return errors.Wrap(errors.ErrCodeInfeasible, err,
			"internal: precedence-only layering reported infeasible for a valid DAG")
	case err != nil:
		return errors.Wrap(errors.ErrCodeInternal, err, "layering solve failed")
	}

	// The solver may leave free variables at zero; explicit min-shift keeps
	// the convention that the top layer is 0.
	minLayer := 0
	for i, n := range nodes {
		l := 0
		if j := compact[varOf[n.ID]]; j >= 0 {
			l = int(x[j])
		}
		layers[n.ID] = l
		if i == 0 || l < minLayer {
			minLayer = l
		}
	}
	if minLayer != 0 {
		for id := range layers {
			layers[id] -= minLayer
		}
	}
	g.SetLayers(layers)
	return nil
}

// compactVars drops variables that appear in no constraint, rewriting the
// program's terms and objective in place. It returns the old-to-new index
// mapping (-1 for dropped variables) and the number of variables kept.
func compactVars(p *solve.LinearProgram) ([]int, int) {
	used := make([]bool, p.NumVars)
	for _, c := range p.Constraints {
		for _, t := range c.Terms {
			used[t.Var] = true
		}
	}

	compact := make([]int, p.NumVars)
	numUsed := 0
	for i, u := range used {
		if u {
			compact[i] = numUsed
			numUsed++
		} else {
			compact[i] = -1
		}
	}
	if numUsed == p.NumVars {
		return compact, numUsed
	}

	obj := make([]float64, numUsed)
	for i, j := range compact {
		if j >= 0 {
			obj[j] = p.Objective[i]
		}
	}
	p.NumVars = numUsed
	p.Objective = obj
	for ci := range p.Constraints {
		for ti := range p.Constraints[ci].Terms {
			p.Constraints[ci].Terms[ti].Var = compact[p.Constraints[ci].Terms[ti].Var]
		}
	}
	return compact, numUsed
}

// addRankConstraints chains ranked nodes in sorted rank order and reports
// whether any node was ranked.
func (s Simplex) addRankConstraints(p *solve.LinearProgram, nodes []*dag.Node, varOf map[string]int) bool {
	if s.rank == nil {
		return false
	}

	type ranked struct {
		node *dag.Node
		rank float64
	}
	var rankedNodes []ranked
	for _, n := range nodes {
		if r, ok := s.rank(n); ok {
			rankedNodes = append(rankedNodes, ranked{n, r})
		}
	}
	if len(rankedNodes) < 2 {
		return len(rankedNodes) > 0
	}

	slices.SortStableFunc(rankedNodes, func(a, b ranked) int {
		switch {
		case a.rank < b.rank:
			return -1
		case a.rank > b.rank:
			return 1
		default:
			return strings.Compare(a.node.ID, b.node.ID)
		}
	})

	for i := 1; i < len(rankedNodes); i++ {
		lo, hi := rankedNodes[i-1], rankedNodes[i]
		terms := []solve.LinearTerm{
			{Var: varOf[hi.node.ID], Coeff: 1},
			{Var: varOf[lo.node.ID], Coeff: -1},
		}
		if lo.rank == hi.rank {
			p.Constraints = append(p.Constraints, solve.LinearConstraint{
				Terms: terms, Kind: solve.Equal, Bound: 0,
			})
		} else {
			// layer(hi) - layer(lo) >= 0
			p.Constraints = append(p.Constraints, solve.LinearConstraint{
				Terms: terms, Kind: solve.GreaterEqual, Bound: 0,
			})
		}
	}
	return true
}

// addGroupConstraints forces equal layers within every group and reports
// whether any node was grouped.
func (s Simplex) addGroupConstraints(p *solve.LinearProgram, nodes []*dag.Node, varOf map[string]int) bool {
	if s.group == nil {
		return false
	}

	groups := make(map[string][]*dag.Node)
	for _, n := range nodes {
		if key, ok := s.group(n); ok {
			groups[key] = append(groups[key], n)
		}
	}
	if len(groups) == 0 {
		return false
	}

	for _, key := range slices.Sorted(maps.Keys(groups)) {
		members := groups[key]
		for i := 1; i < len(members); i++ {
			p.Constraints = append(p.Constraints, solve.LinearConstraint{
				Terms: []solve.LinearTerm{
					{Var: varOf[members[i].ID], Coeff: 1},
					{Var: varOf[members[i-1].ID], Coeff: -1},
				},
				Kind:  solve.Equal,
				Bound: 0,
			})
		}
	}
	return true
}
