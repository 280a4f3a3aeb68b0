package solve

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// QuadraticProgram is the input to a [QPSolver]:
//
//	minimize   ½·xᵀQx + c·x
//	subject to Terms·x >= Bound   for every constraint
//
// Q must be symmetric positive definite (the coordinate engine guarantees
// this through its component-closeness term) and all constraints must be
// inequalities ([GreaterEqual]). Initial must be a feasible starting point;
// the coordinate engine derives one from the decrossed ordering, so
// feasibility is cheap to guarantee at the call site.
type QuadraticProgram struct {
	Q           *mat.SymDense
	C           []float64
	Constraints []LinearConstraint
	Initial     []float64
}

// QPSolver solves convex quadratic programs. The same purity contract as
// [LPSolver] applies: stateless, deterministic for identical input.
type QPSolver interface {
	// SolveQP returns the minimizer of the program, or ErrInfeasible if the
	// initial point violates a constraint.
	SolveQP(p *QuadraticProgram) ([]float64, error)
}

// ActiveSet solves convex QPs with a primal active-set method: it walks
// from the feasible start through a sequence of equality-constrained
// subproblems, adding the first blocking constraint on each step and
// dropping the constraint with the most negative multiplier when a
// subproblem stalls. KKT systems are solved densely via gonum/mat.
//
// Pivoting rules are index-ordered, so the method is deterministic for a
// fixed program. The zero value is a valid solver.
type ActiveSet struct {
	// Tol is the feasibility and optimality tolerance. Zero selects 1e-9.
	Tol float64
	// MaxIter caps active-set iterations. Zero selects 50·(n+m) where n is
	// the variable count and m the constraint count.
	MaxIter int
}

// SolveQP implements [QPSolver].
func (a ActiveSet) SolveQP(p *QuadraticProgram) ([]float64, error) {
	tol := a.Tol
	if tol == 0 {
		tol = 1e-9
	}
	n := len(p.C)
	maxIter := a.MaxIter
	if maxIter == 0 {
		maxIter = 50 * (n + len(p.Constraints) + 1)
	}

	x := make([]float64, n)
	copy(x, p.Initial)

	// Feasibility of the start, and the initial working set: constraints
	// tight at the start are activated immediately.
	var active []int
	inActive := make([]bool, len(p.Constraints))
	for i, con := range p.Constraints {
		slack := con.Dot(x) - con.Bound
		if slack < -tol {
			return nil, ErrInfeasible
		}
		if slack <= tol {
			active = append(active, i)
			inActive[i] = true
		}
	}

	for iter := 0; iter < maxIter; iter++ {
		step, lambda, err := a.solveKKT(p, x, active)
		if err != nil {
			return nil, err
		}

		if vecNorm(step) <= tol {
			// Stationary on the working set: optimal if all multipliers
			// are non-negative, otherwise release the most binding one.
			drop, minLambda := -1, -tol
			for k, l := range lambda {
				if l < minLambda {
					minLambda = l
					drop = k
				}
			}
			if drop < 0 {
				return x, nil
			}
			inActive[active[drop]] = false
			active = append(active[:drop], active[drop+1:]...)
			continue
		}

		// Longest step along the direction that stays feasible.
		alpha, blocking := 1.0, -1
		for i, con := range p.Constraints {
			if inActive[i] {
				continue
			}
			d := con.Dot(step)
			if d >= -tol {
				continue
			}
			t := (con.Bound - con.Dot(x)) / d
			if t < alpha {
				alpha = t
				blocking = i
			}
		}

		for i := range x {
			x[i] += alpha * step[i]
		}
		if blocking >= 0 {
			active = append(active, blocking)
			inActive[blocking] = true
		}
	}
	return nil, fmt.Errorf("active-set solver did not converge in %d iterations", maxIter)
}

// solveKKT solves the equality-constrained subproblem on the working set:
//
//	minimize ½(x+s)ᵀQ(x+s) + c·(x+s)   s.t.  A·s = 0
//
// returning the step s and the Lagrange multipliers of the active
// constraints.
func (a ActiveSet) solveKKT(p *QuadraticProgram, x []float64, active []int) ([]float64, []float64, error) {
	n := len(p.C)
	m := len(active)
	dim := n + m

	kkt := mat.NewDense(dim, dim, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			kkt.Set(i, j, p.Q.At(i, j))
		}
	}
	for k, ci := range active {
		for _, t := range p.Constraints[ci].Terms {
			kkt.Set(n+k, t.Var, t.Coeff)
			kkt.Set(t.Var, n+k, t.Coeff)
		}
	}

	rhs := mat.NewVecDense(dim, nil)
	grad := make([]float64, n)
	for i := 0; i < n; i++ {
		g := p.C[i]
		for j := 0; j < n; j++ {
			g += p.Q.At(i, j) * x[j]
		}
		grad[i] = g
		rhs.SetVec(i, -g)
	}

	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		return nil, nil, fmt.Errorf("singular KKT system: %w", err)
	}

	step := make([]float64, n)
	for i := range step {
		step[i] = sol.AtVec(i)
	}
	// The KKT block carries +Aᵀ, so the solved multipliers are negated
	// relative to the ∇f = Σλᵢaᵢ, λ >= 0 optimality convention.
	lambda := make([]float64, m)
	for k := range lambda {
		lambda[k] = -sol.AtVec(n + k)
	}
	return step, lambda, nil
}

func vecNorm(v []float64) float64 {
	sum := 0.0
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
