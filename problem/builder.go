// Package problem is the coordination hub of trajopt: it owns the
// decision-variable layout of a single trajectory optimization problem,
// wires in kinematic integration, swerve dynamics, and path constraints
// against an opti.Opti backend, seeds the problem from the seed package's
// initial guess, runs the solve, and reconstructs a trajectory from the
// solution. Generate is the package's sole external entry point.
package problem

import (
	"go.viam.com/trajopt/drivetrain"
	"go.viam.com/trajopt/opti"
	"go.viam.com/trajopt/opti/expr"
	"go.viam.com/trajopt/path"
	"go.viam.com/trajopt/seed"
)

// sampleVars holds the nine per-sample decision variables of spec.md
// section 4.4: pose, velocity and acceleration, all in world frame.
type sampleVars struct {
	X, Y, Theta    expr.Node
	Vx, Vy, Omega  expr.Node
	Ax, Ay, Alpha  expr.Node
}

// moduleForce holds one swerve module's world-frame force decision
// variables at a single sample.
type moduleForce struct {
	Fx, Fy expr.Node
}

// builder owns every decision-variable array of one trajectory
// optimization problem and the path/drivetrain it was built from. It is
// constructed fresh per call to Generate; arrays are never shared across
// builder instances.
type builder struct {
	o    opti.Opti[expr.Node]
	tape *expr.Tape

	dt drivetrain.SwerveDrivetrain
	p  path.Path

	samples []sampleVars   // length S
	dts     []expr.Node    // length S-1, dts[k-1] is dt_{k-1}
	forces  [][]moduleForce // forces[k][m], length S x len(dt.Modules)

	// lastSampleIndex[i] is the index of waypoint i's own sample (the
	// terminal sample of the interval ending at waypoint i).
	lastSampleIndex []int
}

// newBuilder allocates every decision variable up front: S samples worth
// of the nine kinematic arrays, S-1 interval dts, and S x len(Modules)
// module force pairs.
func newBuilder(o opti.Opti[expr.Node], dt drivetrain.SwerveDrivetrain, p path.Path) *builder {
	s := p.TotalSampleCount()

	b := &builder{o: o, dt: dt, p: p, samples: make([]sampleVars, s)}
	for i := range b.samples {
		b.samples[i] = sampleVars{
			X: o.DecisionVariable(), Y: o.DecisionVariable(), Theta: o.DecisionVariable(),
			Vx: o.DecisionVariable(), Vy: o.DecisionVariable(), Omega: o.DecisionVariable(),
			Ax: o.DecisionVariable(), Ay: o.DecisionVariable(), Alpha: o.DecisionVariable(),
		}
	}
	b.tape = b.samples[0].X.Tape()

	b.dts = make([]expr.Node, s-1)
	for i := range b.dts {
		b.dts[i] = o.DecisionVariable()
	}

	numModules := len(dt.Modules)
	b.forces = make([][]moduleForce, s)
	for k := range b.forces {
		b.forces[k] = make([]moduleForce, numModules)
		for m := range b.forces[k] {
			b.forces[k][m] = moduleForce{Fx: o.DecisionVariable(), Fy: o.DecisionVariable()}
		}
	}

	b.lastSampleIndex = lastSampleIndices(p)
	return b
}

// lastSampleIndices returns, for each waypoint i, the sample index of
// that waypoint's own pose: the running total of ControlIntervalCount
// through waypoint i inclusive. Waypoint 0's own sample is always 0.
func lastSampleIndices(p path.Path) []int {
	last := make([]int, len(p.Waypoints))
	idx := 0
	for i, wp := range p.Waypoints {
		idx += wp.ControlIntervalCount
		last[i] = idx
	}
	return last
}

// seedInitialGuess runs the seed package's Hermite-spline generator and
// difference pass, then primes every decision variable's initial value
// from it. Seeding is advisory only; it never constrains feasibility.
func (b *builder) seedInitialGuess() {
	samples := seed.Generate(b.dt, b.p)
	full := seed.DifferenceSamples(samples)

	for k, f := range full {
		sv := b.samples[k]
		b.o.SetInitial(sv.X, f.X)
		b.o.SetInitial(sv.Y, f.Y)
		b.o.SetInitial(sv.Theta, f.Theta)
		b.o.SetInitial(sv.Vx, f.Vx)
		b.o.SetInitial(sv.Vy, f.Vy)
		b.o.SetInitial(sv.Omega, f.Omega)
		b.o.SetInitial(sv.Ax, f.Ax)
		b.o.SetInitial(sv.Ay, f.Ay)
		b.o.SetInitial(sv.Alpha, f.Alpha)
	}

	const fallbackDt = 1e-2
	for i := 1; i < len(full); i++ {
		v := full[i].Dt
		if v <= 0 {
			v = fallbackDt
		}
		b.o.SetInitial(b.dts[i-1], v)
	}

	// Module forces have no seed signal from the pose spline; zero is as
	// good a starting guess as any for a force decision variable.
	for k := range b.forces {
		for m := range b.forces[k] {
			b.o.SetInitial(b.forces[k][m].Fx, 0)
			b.o.SetInitial(b.forces[k][m].Fy, 0)
		}
	}
}
