package solve

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

var (
	// ErrInfeasible is returned when no variable assignment satisfies the
	// program's constraints.
	ErrInfeasible = errors.New("program is infeasible")

	// ErrUnbounded is returned when the objective can be improved without
	// bound. For well-formed layout programs this indicates a modeling bug.
	ErrUnbounded = errors.New("program is unbounded")
)

// ConstraintKind distinguishes inequality from equality constraints.
type ConstraintKind int

const (
	// GreaterEqual constrains Terms·x >= Bound.
	GreaterEqual ConstraintKind = iota
	// Equal constrains Terms·x == Bound.
	Equal
)

// LinearTerm is one coefficient of a sparse linear constraint.
type LinearTerm struct {
	Var   int     // Variable index, 0 <= Var < NumVars
	Coeff float64 // Coefficient for that variable
}

// LinearConstraint is a sparse linear constraint over the program's
// variables: Terms·x >= Bound or Terms·x == Bound depending on Kind.
type LinearConstraint struct {
	Terms []LinearTerm
	Kind  ConstraintKind
	Bound float64
}

// Dot evaluates the constraint's left-hand side at x.
func (c LinearConstraint) Dot(x []float64) float64 {
	sum := 0.0
	for _, t := range c.Terms {
		sum += t.Coeff * x[t.Var]
	}
	return sum
}

// LinearProgram is the input to an [LPSolver]: a linear objective over
// NumVars non-negative variables, subject to sparse linear constraints.
//
// The Integer flag marks the program as an ILP. The layering programs built
// by this module have totally unimodular (network) constraint matrices, so
// every simplex vertex is already integral and the LP relaxation solves the
// ILP exactly; a backend that supports general integer programs may instead
// branch and bound.
type LinearProgram struct {
	NumVars     int
	Objective   []float64 // Per-variable objective coefficients, len NumVars
	Maximize    bool      // Maximize instead of minimize
	Constraints []LinearConstraint
	Integer     bool // Require integral variable values
}

// LPSolver solves linear programs. Implementations must be stateless pure
// functions of their input: no caching may leak across calls, and identical
// inputs must produce identical outputs so layouts stay deterministic.
type LPSolver interface {
	// SolveLP returns an optimal assignment for the program's variables,
	// ErrInfeasible if no assignment satisfies the constraints, or
	// ErrUnbounded if the objective is unbounded.
	SolveLP(p *LinearProgram) ([]float64, error)
}

// Simplex solves linear programs with gonum's dense simplex method. The
// zero value is a valid solver using gonum's default tolerance.
//
// Simplex converts the program to standard form (minimize c·x subject to
// A·x = b, x >= 0) by negating maximization objectives and introducing one
// surplus variable per inequality.
type Simplex struct {
	// Tol is the tolerance passed to gonum's simplex routine.
	// Zero selects gonum's default.
	Tol float64
}

// SolveLP implements [LPSolver].
func (s Simplex) SolveLP(p *LinearProgram) ([]float64, error) {
	nSlack := 0
	for _, con := range p.Constraints {
		if con.Kind == GreaterEqual {
			nSlack++
		}
	}

	n := p.NumVars + nSlack
	c := make([]float64, n)
	for i, v := range p.Objective {
		if p.Maximize {
			c[i] = -v
		} else {
			c[i] = v
		}
	}

	a := mat.NewDense(max(len(p.Constraints), 1), n, nil)
	b := make([]float64, len(p.Constraints))
	slack := p.NumVars
	for i, con := range p.Constraints {
		for _, t := range con.Terms {
			a.Set(i, t.Var, a.At(i, t.Var)+t.Coeff)
		}
		b[i] = con.Bound
		if con.Kind == GreaterEqual {
			// Terms·x - s = Bound, s >= 0
			a.Set(i, slack, -1)
			slack++
		}
	}

	if len(p.Constraints) == 0 {
		// Nothing binds the variables; the origin is optimal for any
		// objective that is bounded over x >= 0.
		return make([]float64, p.NumVars), nil
	}

	_, x, err := lp.Simplex(c, a, b, s.Tol, nil)
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return nil, ErrInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return nil, ErrUnbounded
	case err != nil:
		return nil, err
	}

	out := x[:p.NumVars]
	if p.Integer {
		for i, v := range out {
			out[i] = math.Round(v)
		}
	}
	return out, nil
}
