// Package nloptopti implements the Opti backend on top of
// github.com/go-nlopt/nlopt's SLSQP algorithm, for problems where the
// native augmented-Lagrangian solver in opti/nativeopti does not converge
// tightly enough. It requires cgo and the system NLopt library.
package nloptopti

import (
	"context"

	"github.com/go-nlopt/nlopt"
	"github.com/pkg/errors"

	"go.viam.com/trajopt/opti"
	"go.viam.com/trajopt/opti/expr"
)

// Opti is an Opti[expr.Node] implementation backed by NLopt's SLSQP.
type Opti struct {
	tape        *expr.Tape
	objective   *expr.Node
	constraints []expr.Relation
	initial     map[int]float64

	solution []float64
	solved   bool
}

// New returns an empty problem.
func New() *Opti {
	return &Opti{tape: expr.NewTape(), initial: map[int]float64{}}
}

// DecisionVariable implements opti.Opti.
func (o *Opti) DecisionVariable() expr.Node {
	return o.tape.Var()
}

// Minimize implements opti.Opti.
func (o *Opti) Minimize(e expr.Node) {
	o.objective = &e
}

// SubjectTo implements opti.Opti.
func (o *Opti) SubjectTo(r expr.Relation) {
	o.constraints = append(o.constraints, r)
}

// SetInitial implements opti.Opti.
func (o *Opti) SetInitial(e expr.Node, v float64) {
	o.initial[e.VarIndex()] = v
}

// SolutionValue implements opti.Opti.
func (o *Opti) SolutionValue(e expr.Node) float64 {
	if !o.solved {
		return 0
	}
	return e.Value(o.solution)
}

// Solve builds an LD_SLSQP *nlopt.NLopt from the recorded objective and
// constraints and runs it to convergence.
func (o *Opti) Solve(ctx context.Context) error {
	opti.GetCancellationFlag().Store(0)
	if o.objective == nil {
		return errors.New("nlopt opti: no objective set")
	}

	n := o.tape.NumVars()
	solver, err := nlopt.NewNLopt(nlopt.LD_SLSQP, uint(n))
	if err != nil {
		return errors.Wrap(err, "nlopt opti: creating solver")
	}
	defer solver.Destroy()

	objective := *o.objective
	tape := o.tape
	solver.SetMinObjective(func(x, gradOut []float64) float64 {
		if opti.GetCancellationFlag().Load() != 0 {
			solver.ForceStop()
		}
		if gradOut != nil {
			copy(gradOut, tape.Grad(objective, x))
		}
		return objective.Value(x)
	})

	for _, c := range o.constraints {
		constraint := c
		fn := func(x, gradOut []float64) float64 {
			if gradOut != nil {
				copy(gradOut, tape.Grad(constraint.Expr, x))
			}
			return constraint.Expr.Value(x)
		}
		switch constraint.Kind {
		case expr.RelEq:
			if err := solver.AddEqualityConstraint(fn, 1e-8); err != nil {
				return errors.Wrap(err, "nlopt opti: adding equality constraint")
			}
		case expr.RelLeZero:
			if err := solver.AddInequalityConstraint(fn, 1e-8); err != nil {
				return errors.Wrap(err, "nlopt opti: adding inequality constraint")
			}
		}
	}

	if err := solver.SetXtolRel(1e-8); err != nil {
		return errors.Wrap(err, "nlopt opti: setting xtol")
	}
	if err := solver.SetMaxEval(2000); err != nil {
		return errors.Wrap(err, "nlopt opti: setting max eval")
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			opti.GetCancellationFlag().Store(1)
			solver.ForceStop()
		case <-done:
		}
	}()

	x := make([]float64, n)
	for idx, v := range o.initial {
		x[idx] = v
	}

	if opti.GetCancellationFlag().Load() != 0 || ctx.Err() != nil {
		return errors.New("nlopt opti: solve cancelled before start")
	}

	xOpt, _, err := solver.Optimize(x)
	if err != nil {
		if opti.GetCancellationFlag().Load() != 0 {
			return errors.New("nlopt opti: solve cancelled")
		}
		return errors.Wrap(err, "nlopt opti: optimize")
	}

	o.solution = xOpt
	o.solved = true
	return nil
}
