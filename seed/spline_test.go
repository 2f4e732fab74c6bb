package seed

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/trajopt/drivetrain"
	"go.viam.com/trajopt/path"
)

func testDrivetrain() drivetrain.SwerveDrivetrain {
	return drivetrain.SwerveDrivetrain{
		Mass:            45,
		MomentOfInertia: 6,
		Modules: []drivetrain.SwerveModule{
			{X: 0.6, Y: 0.6, WheelRadius: 0.04, WheelMaxAngularVelocity: 70, WheelMaxTorque: 2},
		},
	}
}

func straightLinePath() path.Path {
	return path.Path{
		Waypoints: []path.Waypoint{
			{ControlIntervalCount: 0, InitialGuessPoints: []path.InitialGuessPoint{{X: 0, Y: 0, Heading: 0}}},
			{ControlIntervalCount: 4, InitialGuessPoints: []path.InitialGuessPoint{{X: 4, Y: 0, Heading: 0}}},
		},
	}
}

func TestGenerateProducesOneSamplePerTotalCount(t *testing.T) {
	p := straightLinePath()
	samples := Generate(testDrivetrain(), p)
	test.That(t, len(samples), test.ShouldEqual, p.TotalSampleCount())
}

func TestGenerateStraightLineStaysOnAxis(t *testing.T) {
	samples := Generate(testDrivetrain(), straightLinePath())
	for _, s := range samples {
		test.That(t, s.Y, test.ShouldAlmostEqual, 0.0, 1e-9)
		test.That(t, s.Heading, test.ShouldAlmostEqual, 0.0, 1e-9)
	}
	last := samples[len(samples)-1]
	test.That(t, last.X, test.ShouldAlmostEqual, 4.0, 1e-9)
}

func TestGenerateEveryDtPositive(t *testing.T) {
	samples := Generate(testDrivetrain(), straightLinePath())
	for i, s := range samples {
		if i == 0 {
			continue
		}
		test.That(t, s.Dt, test.ShouldBeGreaterThan, 0.0)
	}
}

func TestDifferenceSamplesMatchesUniformVelocity(t *testing.T) {
	samples := []Sample{
		{X: 0, Y: 0, Heading: 0},
		{X: 1, Y: 0, Heading: 0, Dt: 1},
		{X: 2, Y: 0, Heading: 0, Dt: 1},
	}
	full := DifferenceSamples(samples)
	test.That(t, full[1].Vx, test.ShouldAlmostEqual, 1.0)
	test.That(t, full[2].Vx, test.ShouldAlmostEqual, 1.0)
	test.That(t, full[2].Ax, test.ShouldAlmostEqual, 0.0)
}
