// Package seed builds the advisory initial guess that primes an Opti
// problem's decision variables before the solver runs. It fits a
// composite cubic Hermite pose spline through each waypoint's guess
// points, samples it at the waypoint's requested sample density, and
// finite-differences the result into velocity/acceleration seeds.
//
// Seeding never affects feasibility; the solver enforces the original
// constraints regardless of how the problem was seeded.
package seed

import (
	"math"

	"go.viam.com/trajopt/drivetrain"
	"go.viam.com/trajopt/path"
)

// Sample is one seeded pose, with the dt leading into it (dt_{k-1}); the
// first sample's Dt is unused (there is no interval before sample 0).
type Sample struct {
	X, Y, Heading float64
	Dt            float64
}

// FullSample adds the finite-differenced velocity and acceleration seeds
// DifferenceSamples derives from a Sample sequence.
type FullSample struct {
	X, Y, Theta   float64
	Vx, Vy, Omega float64
	Ax, Ay, Alpha float64
	Dt            float64
}

const minSeedDt = 1e-3

// Generate builds one Sample per total sample (per the path's sample-count
// invariant): sample 0 from waypoint 0's own anchor pose, and N_i samples
// per subsequent waypoint i along a cubic Hermite spline fit through that
// waypoint's guess points.
func Generate(dt drivetrain.SwerveDrivetrain, p path.Path) []Sample {
	samples := make([]Sample, 0, p.TotalSampleCount())

	anchor := waypointAnchor(p.Waypoints[0])
	samples = append(samples, Sample{X: anchor.X, Y: anchor.Y, Heading: anchor.Heading})

	nominalVelocity := nominalSeedVelocity(dt)

	prevAnchor := anchor
	for i := 1; i < len(p.Waypoints); i++ {
		wp := p.Waypoints[i]
		controlPoints := append([]path.InitialGuessPoint{prevAnchor}, wp.InitialGuessPoints...)
		if len(controlPoints) < 2 {
			controlPoints = append(controlPoints, prevAnchor)
		}
		spline := newHermiteSpline(controlPoints)

		arcLength := spline.arcLengthEstimate()
		segmentDt := arcLength / nominalVelocity
		if segmentDt < minSeedDt*float64(wp.ControlIntervalCount) {
			segmentDt = minSeedDt * float64(wp.ControlIntervalCount)
		}
		perSampleDt := segmentDt / float64(wp.ControlIntervalCount)
		if perSampleDt < minSeedDt {
			perSampleDt = minSeedDt
		}

		for j := 1; j <= wp.ControlIntervalCount; j++ {
			t := float64(j) / float64(wp.ControlIntervalCount)
			pt := spline.eval(t)
			samples = append(samples, Sample{X: pt.X, Y: pt.Y, Heading: pt.Heading, Dt: perSampleDt})
		}

		prevAnchor = controlPoints[len(controlPoints)-1]
	}

	return samples
}

// waypointAnchor returns the pose a waypoint's own guess points converge
// to: the last entry, by convention, or the origin if none were supplied.
func waypointAnchor(wp path.Waypoint) path.InitialGuessPoint {
	if len(wp.InitialGuessPoints) == 0 {
		return path.InitialGuessPoint{}
	}
	return wp.InitialGuessPoints[len(wp.InitialGuessPoints)-1]
}

// nominalSeedVelocity derives a rough cruising speed from the drivetrain's
// module wheel-speed bounds, used only to scale the seeded dt.
func nominalSeedVelocity(dt drivetrain.SwerveDrivetrain) float64 {
	if len(dt.Modules) == 0 {
		return 1
	}
	maxSpeed := 0.0
	for _, m := range dt.Modules {
		if s := m.MaxWheelSpeed(); s > maxSpeed {
			maxSpeed = s
		}
	}
	if maxSpeed <= 0 {
		return 1
	}
	// A fraction of top wheel speed, since cornering and acceleration
	// headroom mean the chassis rarely travels at the module's bare
	// linear limit.
	return 0.5 * maxSpeed
}

// hermiteSpline is a composite C1 cubic Hermite curve through a sequence
// of (x, y, heading) control points, with Catmull-Rom tangents.
type hermiteSpline struct {
	points   []path.InitialGuessPoint
	tangents []path.InitialGuessPoint
}

func newHermiteSpline(points []path.InitialGuessPoint) *hermiteSpline {
	n := len(points)
	tangents := make([]path.InitialGuessPoint, n)
	for i := range points {
		switch {
		case n == 1:
			tangents[i] = path.InitialGuessPoint{}
		case i == 0:
			tangents[i] = diff(points[1], points[0])
		case i == n-1:
			tangents[i] = diff(points[n-1], points[n-2])
		default:
			tangents[i] = scale(diff(points[i+1], points[i-1]), 0.5)
		}
	}
	return &hermiteSpline{points: points, tangents: tangents}
}

func diff(a, b path.InitialGuessPoint) path.InitialGuessPoint {
	return path.InitialGuessPoint{X: a.X - b.X, Y: a.Y - b.Y, Heading: a.Heading - b.Heading}
}

func scale(a path.InitialGuessPoint, c float64) path.InitialGuessPoint {
	return path.InitialGuessPoint{X: a.X * c, Y: a.Y * c, Heading: a.Heading * c}
}

// eval samples the composite spline at global parameter t in [0, 1],
// mapping it onto the appropriate sub-interval between consecutive
// control points.
func (s *hermiteSpline) eval(t float64) path.InitialGuessPoint {
	segments := len(s.points) - 1
	if segments <= 0 {
		return s.points[0]
	}
	scaled := t * float64(segments)
	idx := int(math.Floor(scaled))
	if idx >= segments {
		idx = segments - 1
	}
	localT := scaled - float64(idx)

	p0, p1 := s.points[idx], s.points[idx+1]
	m0, m1 := s.tangents[idx], s.tangents[idx+1]

	h00 := 2*localT*localT*localT - 3*localT*localT + 1
	h10 := localT*localT*localT - 2*localT*localT + localT
	h01 := -2*localT*localT*localT + 3*localT*localT
	h11 := localT*localT*localT - localT*localT

	return path.InitialGuessPoint{
		X:       h00*p0.X + h10*m0.X + h01*p1.X + h11*m1.X,
		Y:       h00*p0.Y + h10*m0.Y + h01*p1.Y + h11*m1.Y,
		Heading: h00*p0.Heading + h10*m0.Heading + h01*p1.Heading + h11*m1.Heading,
	}
}

// arcLengthEstimate approximates the spline's length with the straight-line
// distance between its control points, which is adequate for seeding dt.
func (s *hermiteSpline) arcLengthEstimate() float64 {
	total := 0.0
	for i := 1; i < len(s.points); i++ {
		dx := s.points[i].X - s.points[i-1].X
		dy := s.points[i].Y - s.points[i-1].Y
		total += math.Hypot(dx, dy)
	}
	return total
}

// DifferenceSamples finite-differences a position/heading sample sequence
// (plus its seeded dt) into velocity and acceleration seeds. Sample 0's
// velocity and acceleration are seeded to zero; spec.md leaves sample 0's
// kinematic degrees of freedom free unless an explicit waypoint constraint
// pins them, and zero is a reasonable advisory seed either way.
func DifferenceSamples(samples []Sample) []FullSample {
	full := make([]FullSample, len(samples))
	for i, s := range samples {
		full[i] = FullSample{X: s.X, Y: s.Y, Theta: s.Heading, Dt: s.Dt}
	}
	for i := 1; i < len(samples); i++ {
		dt := full[i].Dt
		if dt <= 0 {
			dt = minSeedDt
		}
		full[i].Vx = (full[i].X - full[i-1].X) / dt
		full[i].Vy = (full[i].Y - full[i-1].Y) / dt
		full[i].Omega = (full[i].Theta - full[i-1].Theta) / dt
	}
	for i := 1; i < len(samples); i++ {
		dt := full[i].Dt
		if dt <= 0 {
			dt = minSeedDt
		}
		full[i].Ax = (full[i].Vx - full[i-1].Vx) / dt
		full[i].Ay = (full[i].Vy - full[i-1].Vy) / dt
		full[i].Alpha = (full[i].Omega - full[i-1].Omega) / dt
	}
	return full
}
