package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"go.viam.com/test"
	"gonum.org/v1/gonum/diff/fd"
)

func TestArithmeticValues(t *testing.T) {
	tape := NewTape()
	a := tape.Var()
	b := tape.Var()

	sum := a.Add(b)
	diff := a.Sub(b)
	prod := a.Mul(b)
	quot := a.Div(b)
	neg := a.Neg()

	x := []float64{3, 2}
	test.That(t, sum.Value(x), test.ShouldEqual, 5.0)
	test.That(t, diff.Value(x), test.ShouldEqual, 1.0)
	test.That(t, prod.Value(x), test.ShouldEqual, 6.0)
	test.That(t, quot.Value(x), test.ShouldEqual, 1.5)
	test.That(t, neg.Value(x), test.ShouldEqual, -3.0)
}

func TestTrigValues(t *testing.T) {
	tape := NewTape()
	theta := tape.Var()
	s := theta.Sin()
	c := theta.Cos()

	x := []float64{math.Pi / 3}
	test.That(t, s.Value(x), test.ShouldAlmostEqual, math.Sin(math.Pi/3))
	test.That(t, c.Value(x), test.ShouldAlmostEqual, math.Cos(math.Pi/3))
}

// TestGradMatchesFiniteDifference checks the hand-rolled reverse-mode Grad
// against gonum's finite-difference gradient for a representative
// nonlinear scalar expression involving every arithmetic and trig node
// kind; Exp and Log are covered by TestExpLogValuesAndGrad.
func TestGradMatchesFiniteDifference(t *testing.T) {
	build := func(tape *Tape, a, b Node) Node {
		// (a*sin(b) - a/b)^2 style expression, deliberately mixing the
		// arithmetic and trig kinds so their adjoint branches in Tape.Grad
		// are exercised.
		term1 := a.Mul(b.Sin())
		term2 := a.Div(b)
		diff := term1.Sub(term2)
		return diff.Mul(diff).Add(b.Cos().Neg())
	}

	x0 := []float64{1.7, 0.4}

	tape := NewTape()
	a := tape.Var()
	b := tape.Var()
	out := build(tape, a, b)

	got := tape.Grad(out, x0)

	f := func(x []float64) float64 {
		tape := NewTape()
		a := tape.Var()
		b := tape.Var()
		out := build(tape, a, b)
		return out.Value(x)
	}

	want := make([]float64, len(x0))
	fd.Gradient(want, f, x0, nil)

	for i := range want {
		require.InDeltaf(t, want[i], got[i], 1e-5, "gradient component %d", i)
	}
}

// TestExpLogValuesAndGrad covers the soft-max node kinds the obstacle
// constraint's log-sum-exp relaxation relies on.
func TestExpLogValuesAndGrad(t *testing.T) {
	build := func(tape *Tape, a Node) Node {
		return a.Mul(a.Exp()).Log()
	}

	x0 := []float64{0.8}
	tape := NewTape()
	a := tape.Var()
	out := build(tape, a)
	test.That(t, out.Value(x0), test.ShouldAlmostEqual, math.Log(0.8)+0.8)
	got := tape.Grad(out, x0)

	f := func(x []float64) float64 {
		tape := NewTape()
		a := tape.Var()
		return build(tape, a).Value(x)
	}
	want := make([]float64, len(x0))
	fd.Gradient(want, f, x0, nil)
	for i := range want {
		require.InDeltaf(t, want[i], got[i], 1e-5, "gradient component %d", i)
	}
}

func TestRelationNormalization(t *testing.T) {
	tape := NewTape()
	a := tape.Var()
	b := tape.Var()

	eq := a.Eq(b)
	test.That(t, eq.Kind, test.ShouldEqual, RelEq)
	test.That(t, eq.Expr.Value([]float64{4, 4}), test.ShouldEqual, 0.0)

	le := a.Le(b)
	test.That(t, le.Kind, test.ShouldEqual, RelLeZero)
	test.That(t, le.Expr.Value([]float64{1, 4}), test.ShouldBeLessThanOrEqualTo, 0.0)

	ge := a.Ge(b)
	test.That(t, ge.Kind, test.ShouldEqual, RelLeZero)
	test.That(t, ge.Expr.Value([]float64{4, 1}), test.ShouldBeLessThanOrEqualTo, 0.0)
}
