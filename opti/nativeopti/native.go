// Package nativeopti implements the lighter, pure-Go Opti backend: a
// from-scratch augmented-Lagrangian solver with a BFGS quasi-Newton inner
// loop, consuming the shared opti/expr tape for values and gradients. It
// has no cgo dependency, and is the default backend problem.Generate uses.
package nativeopti

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"go.viam.com/trajopt/opti"
	"go.viam.com/trajopt/opti/expr"
)

// Opti is a native-Go Opti[expr.Node] implementation.
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

const (
	maxOuterIterations = 40
	maxInnerIterations = 60
	penaltyGrowth      = 4.0
	initialPenalty     = 10.0
	constraintTol      = 1e-6
)

// Solve runs the augmented-Lagrangian outer loop. Each outer iteration
// minimizes the current augmented Lagrangian with BFGS, then updates the
// multiplier estimates and, while the iterate is not yet feasible, grows
// the penalty weight.
func (o *Opti) Solve(ctx context.Context) error {
	opti.GetCancellationFlag().Store(0)
	if o.objective == nil {
		return errors.New("native opti: no objective set")
	}

	n := o.tape.NumVars()
	x := make([]float64, n)
	for idx, v := range o.initial {
		x[idx] = v
	}

	lambda := make([]float64, len(o.constraints)) // equality multipliers
	mu := make([]float64, len(o.constraints))      // inequality multipliers (>= 0)
	rho := initialPenalty

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			opti.GetCancellationFlag().Store(1)
		case <-done:
		}
	}()

	for outer := 0; outer < maxOuterIterations; outer++ {
		if opti.GetCancellationFlag().Load() != 0 || ctx.Err() != nil {
			return errors.New("native opti: solve cancelled")
		}

		x = o.minimizeAugmentedLagrangian(x, lambda, mu, rho)

		maxViol := o.updateMultipliers(x, lambda, mu, rho)
		if maxViol < constraintTol {
			o.solution = x
			o.solved = true
			return nil
		}
		rho *= penaltyGrowth
	}

	if o.maxConstraintViolation(x) < constraintTol*10 {
		// Accept a near-feasible point rather than fail outright; the
		// caller's downstream tolerance checks are the final arbiter.
		o.solution = x
		o.solved = true
		return nil
	}
	return errors.New("native opti: failed to converge within outer iteration budget")
}

// augmentedLagrangianValueGrad evaluates the augmented Lagrangian and its
// gradient at x.
func (o *Opti) augmentedLagrangianValueGrad(x, lambda, mu []float64, rho float64) (float64, []float64) {
	val := o.objective.Value(x)
	grad := o.tape.Grad(*o.objective, x)

	for i, c := range o.constraints {
		cv := c.Expr.Value(x)
		cg := o.tape.Grad(c.Expr, x)
		switch c.Kind {
		case expr.RelEq:
			val += lambda[i]*cv + 0.5*rho*cv*cv
			coef := lambda[i] + rho*cv
			floats.AddScaled(grad, coef, cg)
		case expr.RelLeZero:
			// g(x) <= 0 reformulated with a nonnegative slack via the
			// classic max(0, mu/rho + c) penalty term.
			shifted := mu[i]/rho + cv
			if shifted > 0 {
				val += 0.5 * rho * shifted * shifted
				floats.AddScaled(grad, rho*shifted, cg)
			} else {
				val += -0.5 * mu[i] * mu[i] / rho
			}
		}
	}
	return val, grad
}

// minimizeAugmentedLagrangian runs damped BFGS on the current augmented
// Lagrangian, returning the improved iterate.
func (o *Opti) minimizeAugmentedLagrangian(x0, lambda, mu []float64, rho float64) []float64 {
	n := len(x0)
	x := append([]float64(nil), x0...)
	hInv := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		hInv.SetSym(i, i, 1)
	}

	_, grad := o.augmentedLagrangianValueGrad(x, lambda, mu, rho)

	for iter := 0; iter < maxInnerIterations; iter++ {
		if opti.GetCancellationFlag().Load() != 0 {
			return x
		}
		if floats.Norm(grad, 2) < 1e-7 {
			break
		}

		direction := newtonDirection(hInv, grad)
		step := backtrackingLineSearch(o, x, direction, lambda, mu, rho)

		xNext := make([]float64, n)
		floats.AddScaledTo(xNext, x, step, direction)

		_, gradNext := o.augmentedLagrangianValueGrad(xNext, lambda, mu, rho)

		s := make([]float64, n)
		floats.SubTo(s, xNext, x)
		y := make([]float64, n)
		floats.SubTo(y, gradNext, grad)

		updateBFGS(hInv, s, y)

		x, grad = xNext, gradNext
	}
	return x
}

// newtonDirection returns -Hinv*grad, the quasi-Newton descent direction.
func newtonDirection(hInv *mat.SymDense, grad []float64) []float64 {
	n := len(grad)
	g := mat.NewVecDense(n, grad)
	var out mat.VecDense
	out.MulVec(hInv, g)
	direction := make([]float64, n)
	for i := 0; i < n; i++ {
		direction[i] = -out.AtVec(i)
	}
	return direction
}

func backtrackingLineSearch(o *Opti, x, direction []float64, lambda, mu []float64, rho float64) float64 {
	f0, grad := o.augmentedLagrangianValueGrad(x, lambda, mu, rho)
	slope := floats.Dot(grad, direction)
	if slope >= 0 {
		// Not a descent direction (can happen after a bad BFGS update);
		// fall back to steepest descent.
		direction = append([]float64(nil), direction...)
		for i := range direction {
			direction[i] = -grad[i]
		}
		slope = floats.Dot(grad, direction)
	}

	step := 1.0
	const c1 = 1e-4
	n := len(x)
	trial := make([]float64, n)
	for i := 0; i < 30; i++ {
		floats.AddScaledTo(trial, x, step, direction)
		fTrial, _ := o.augmentedLagrangianValueGrad(trial, lambda, mu, rho)
		if fTrial <= f0+c1*step*slope {
			return step
		}
		step *= 0.5
	}
	return step
}

func updateBFGS(hInv *mat.SymDense, s, y []float64) {
	n := len(s)
	sy := floats.Dot(s, y)
	if sy < 1e-10 {
		// Skip the update rather than corrupt the curvature estimate.
		return
	}
	rho := 1.0 / sy

	hy := mat.NewVecDense(n, nil)
	hy.MulVec(hInv, mat.NewVecDense(n, y))

	yHy := floats.Dot(y, hy.RawVector().Data)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			term := hInv.At(i, j)
			term += (1 + rho*yHy) * rho * s[i] * s[j]
			term -= rho * (hy.AtVec(i)*s[j] + s[i]*hy.AtVec(j))
			hInv.SetSym(i, j, term)
		}
	}
}

func (o *Opti) updateMultipliers(x, lambda, mu []float64, rho float64) float64 {
	maxViol := 0.0
	for i, c := range o.constraints {
		cv := c.Expr.Value(x)
		switch c.Kind {
		case expr.RelEq:
			lambda[i] += rho * cv
			if math.Abs(cv) > maxViol {
				maxViol = math.Abs(cv)
			}
		case expr.RelLeZero:
			mu[i] = math.Max(0, mu[i]+rho*cv)
			viol := math.Max(0, cv)
			if viol > maxViol {
				maxViol = viol
			}
		}
	}
	return maxViol
}

func (o *Opti) maxConstraintViolation(x []float64) float64 {
	maxViol := 0.0
	for _, c := range o.constraints {
		cv := c.Expr.Value(x)
		switch c.Kind {
		case expr.RelEq:
			if math.Abs(cv) > maxViol {
				maxViol = math.Abs(cv)
			}
		case expr.RelLeZero:
			if cv > maxViol {
				maxViol = cv
			}
		}
	}
	return maxViol
}
