package drivetrain

import (
	"testing"

	"go.viam.com/test"
)

func fourModuleSwerve() SwerveDrivetrain {
	return SwerveDrivetrain{
		Mass:            45,
		MomentOfInertia: 6,
		Modules: []SwerveModule{
			{X: 0.6, Y: 0.6, WheelRadius: 0.04, WheelMaxAngularVelocity: 70, WheelMaxTorque: 2},
			{X: 0.6, Y: -0.6, WheelRadius: 0.04, WheelMaxAngularVelocity: 70, WheelMaxTorque: 2},
			{X: -0.6, Y: 0.6, WheelRadius: 0.04, WheelMaxAngularVelocity: 70, WheelMaxTorque: 2},
			{X: -0.6, Y: -0.6, WheelRadius: 0.04, WheelMaxAngularVelocity: 70, WheelMaxTorque: 2},
		},
	}
}

func TestSwerveModuleBounds(t *testing.T) {
	m := SwerveModule{WheelRadius: 0.04, WheelMaxAngularVelocity: 70, WheelMaxTorque: 2}
	test.That(t, m.MaxWheelSpeed(), test.ShouldAlmostEqual, 2.8)
	test.That(t, m.MaxForceMagnitude(), test.ShouldAlmostEqual, 50.0)
}

func TestSwerveDrivetrainIsValid(t *testing.T) {
	test.That(t, fourModuleSwerve().IsValid(), test.ShouldBeTrue)

	noModules := SwerveDrivetrain{Mass: 1, MomentOfInertia: 1}
	test.That(t, noModules.IsValid(), test.ShouldBeFalse)

	badMass := fourModuleSwerve()
	badMass.Mass = 0
	test.That(t, badMass.IsValid(), test.ShouldBeFalse)

	badModule := fourModuleSwerve()
	badModule.Modules[0].WheelRadius = 0
	test.That(t, badModule.IsValid(), test.ShouldBeFalse)
}
