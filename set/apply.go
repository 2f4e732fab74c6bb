package set

import (
	"math"

	"go.viam.com/trajopt/opti"
	"go.viam.com/trajopt/opti/expr"
)

// Apply1d posts z's interval bound to o as zero, one or two inequality
// constraints, skipping any side that is infinite.
func Apply1d(o opti.Opti[expr.Node], s IntervalSet1d, z expr.Node) {
	tape := z.Tape()
	if !math.IsInf(s.Lo, -1) {
		o.SubjectTo(tape.Const(s.Lo).Le(z))
	}
	if !math.IsInf(s.Hi, 1) {
		o.SubjectTo(z.Le(tape.Const(s.Hi)))
	}
}

// Apply2d posts the constraint described by s against the point (x, y) to
// o, dispatching on s's concrete variant per the formulas in set.go's
// doc comments. It panics on an unrecognized variant, since Set2d is
// sealed to this package and every variant must be handled here.
func Apply2d(o opti.Opti[expr.Node], s Set2d, x, y expr.Node) {
	tape := x.Tape()
	switch v := s.(type) {
	case RectangularSet2d:
		Apply1d(o, v.XRange, x)
		Apply1d(o, v.YRange, y)
	case LinearSet2d:
		lhs := x.Mul(tape.Const(math.Sin(v.Theta))).Sub(y.Mul(tape.Const(math.Cos(v.Theta))))
		o.SubjectTo(lhs.Eq(tape.Const(0)))
	case EllipticalSet2d:
		nx := x.DivC(v.XRadius)
		ny := y.DivC(v.YRadius)
		e := nx.Mul(nx).Add(ny.Mul(ny))
		one := tape.Const(1)
		switch v.Direction {
		case DirectionInside:
			o.SubjectTo(e.Le(one))
		case DirectionCentered:
			o.SubjectTo(e.Eq(one))
		case DirectionOutside:
			o.SubjectTo(e.Ge(one))
		}
	case ConeSet2d:
		first := x.Mul(tape.Const(math.Sin(v.ThetaMax))).Sub(y.Mul(tape.Const(math.Cos(v.ThetaMax))))
		second := y.Mul(tape.Const(math.Cos(v.ThetaMin))).Sub(x.Mul(tape.Const(math.Sin(v.ThetaMin))))
		o.SubjectTo(first.Ge(tape.Const(0)))
		o.SubjectTo(second.Ge(tape.Const(0)))
	default:
		panic("set: unhandled Set2d variant in Apply2d")
	}
}
