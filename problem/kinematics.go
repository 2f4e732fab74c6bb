package problem

// Time bounds on every interval dt, per spec.md section 4.4: a strict
// positive lower bound and a loose upper bound, both fixed constants
// rather than a user-exposed tuning surface (spec.md section 6).
const (
	minDt = 1e-6
	maxDt = 3.0
)

// applyKinematics posts the forward-Euler kinematic integration
// equalities for every sample k >= 1. The right-hand side of every
// identity uses sample k's velocity/acceleration, not k-1's: this is
// implicit Euler on the state and is the design choice spec.md section
// 4.4 calls out as load-bearing for fidelity with the source.
func (b *builder) applyKinematics() {
	for k := 1; k < len(b.samples); k++ {
		dt := b.dts[k-1]
		prev := b.samples[k-1]
		cur := b.samples[k]

		b.o.SubjectTo(cur.X.Eq(prev.X.Add(cur.Vx.Mul(dt))))
		b.o.SubjectTo(cur.Y.Eq(prev.Y.Add(cur.Vy.Mul(dt))))
		b.o.SubjectTo(cur.Theta.Eq(prev.Theta.Add(cur.Omega.Mul(dt))))
		b.o.SubjectTo(cur.Vx.Eq(prev.Vx.Add(cur.Ax.Mul(dt))))
		b.o.SubjectTo(cur.Vy.Eq(prev.Vy.Add(cur.Ay.Mul(dt))))
		b.o.SubjectTo(cur.Omega.Eq(prev.Omega.Add(cur.Alpha.Mul(dt))))
	}
}

// applyTimeBoundsAndObjective bounds every interval's dt and sets the
// total-time objective Minimize(sum dt).
func (b *builder) applyTimeBoundsAndObjective() {
	tape := b.tape
	total := tape.Const(0)
	for _, dt := range b.dts {
		b.o.SubjectTo(tape.Const(minDt).Le(dt))
		b.o.SubjectTo(dt.Le(tape.Const(maxDt)))
		total = total.Add(dt)
	}
	b.o.Minimize(total)
}
