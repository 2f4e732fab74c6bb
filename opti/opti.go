// Package opti is the facade over the nonlinear-programming modelling
// layer: opaque decision variables, symbolic expressions, equality and
// inequality constraint sinks, objective minimization, solve, and a
// post-solve value extractor. Two concrete backends exist, under
// opti/nativeopti and opti/nloptopti; callers program against the Opti
// interface in this package so that either backend is a drop-in swap.
package opti

import (
	"context"
	"sync/atomic"

	"go.viam.com/trajopt/opti/expr"
)

// Expression is the concrete type both backends share. Keeping a single
// shared expression representation (opti/expr.Node) rather than giving
// each backend its own means the expression algebra is written once, and
// the Opti interface's genericity over E exists to let the two backends
// still be distinguished at the type level without virtual dispatch at
// every arithmetic operation.
type Expression = expr.Node

// Relation is produced by Expression.Eq/Le/Ge and consumed by SubjectTo.
type Relation = expr.Relation

// Opti is the abstract modelling facade of spec section 4.2. E is always
// instantiated as Expression by the backends in this module; it remains a
// type parameter so the boundary between "build a problem" code and
// "which backend runs it" code stays a compile-time choice.
type Opti[E any] interface {
	// DecisionVariable allocates a new unbounded scalar variable.
	DecisionVariable() E
	// Minimize sets or replaces the scalar objective.
	Minimize(E)
	// SubjectTo adds an equality or inequality constraint.
	SubjectTo(Relation)
	// SetInitial seeds the initial value for a decision variable.
	SetInitial(E, float64)
	// Solve runs the solver to convergence or failure. It clears the
	// process-wide cancellation flag on entry; ctx cancellation is
	// propagated into that flag so either mechanism aborts the solve.
	Solve(ctx context.Context) error
	// SolutionValue reads back the solved value of e, or 0 if Solve has
	// not yet succeeded.
	SolutionValue(E) float64
}

var cancellationFlag atomic.Int32

// GetCancellationFlag returns the process-wide cancellation flag. Writing
// a nonzero value requests that any solve currently in progress abort at
// its next iteration. The flag is auto-cleared at the start of every
// Solve call, so a stale cancellation cannot poison a later solve.
func GetCancellationFlag() *atomic.Int32 {
	return &cancellationFlag
}
