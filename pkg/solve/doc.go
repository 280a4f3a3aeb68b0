// Package solve defines the numerical solver boundary of the layout engine.
//
// # Overview
//
// The layout stages express their work as mathematical programs: layer
// assignment builds a [LinearProgram] (an ILP whose network constraint
// matrix makes the LP relaxation exact), and coordinate assignment builds a
// [QuadraticProgram]. The stages never depend on solver internals - only on
// the [LPSolver] and [QPSolver] contracts - so backends are swappable.
//
// # Backends
//
// [Simplex] backs LPSolver with gonum's dense simplex method
// (gonum.org/v1/gonum/optimize/convex/lp). [ActiveSet] backs QPSolver with a
// primal active-set method whose KKT systems are solved with gonum/mat.
//
// # Contract
//
// Solvers are stateless pure functions: no global caches, no state leaking
// across calls, identical input producing identical output. Infeasibility is
// an explicit signal ([ErrInfeasible]), never a panic, because the layering
// engine must attribute it to user-supplied hints. Calls are opaque and
// synchronous; there are no partial or streaming results.
package solve
