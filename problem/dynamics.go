package problem

// applyDynamics posts, for every sample and every swerve module, the
// wheel-speed bound and the force-magnitude bound, then the net
// linear/angular dynamics equalities tying module forces to chassis
// acceleration, per spec.md section 4.4's swerve pseudocode.
func (b *builder) applyDynamics() {
	tape := b.tape
	mass := tape.Const(b.dt.Mass)
	moi := tape.Const(b.dt.MomentOfInertia)

	for k := range b.samples {
		s := b.samples[k]
		sinT := s.Theta.Sin()
		cosT := s.Theta.Cos()

		sumFx := tape.Const(0)
		sumFy := tape.Const(0)
		sumTorque := tape.Const(0)

		for m, mod := range b.dt.Modules {
			px := tape.Const(mod.X)
			py := tape.Const(mod.Y)

			// Module velocity in world frame.
			vxm := s.Vx.Sub(s.Omega.Mul(px.Mul(sinT).Add(py.Mul(cosT))))
			vym := s.Vy.Add(s.Omega.Mul(px.Mul(cosT).Sub(py.Mul(sinT))))
			speedLimit := mod.MaxWheelSpeed()
			speedSq := vxm.Mul(vxm).Add(vym.Mul(vym))
			b.o.SubjectTo(speedSq.Le(tape.Const(speedLimit * speedLimit)))

			f := b.forces[k][m]
			forceLimit := mod.MaxForceMagnitude()
			forceSq := f.Fx.Mul(f.Fx).Add(f.Fy.Mul(f.Fy))
			b.o.SubjectTo(forceSq.Le(tape.Const(forceLimit * forceLimit)))

			sumFx = sumFx.Add(f.Fx)
			sumFy = sumFy.Add(f.Fy)

			armX := px.Mul(cosT).Sub(py.Mul(sinT))
			armY := px.Mul(sinT).Add(py.Mul(cosT))
			sumTorque = sumTorque.Add(armX.Mul(f.Fy).Sub(armY.Mul(f.Fx)))
		}

		b.o.SubjectTo(s.Ax.Mul(mass).Eq(sumFx))
		b.o.SubjectTo(s.Ay.Mul(mass).Eq(sumFy))
		b.o.SubjectTo(s.Alpha.Mul(moi).Eq(sumTorque))
	}
}
