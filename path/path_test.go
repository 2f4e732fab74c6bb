package path

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"go.viam.com/trajopt/set"
)

func unitSquareBumpers() []r2.Point {
	return []r2.Point{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}
}

func restPinConstraints(x, y, heading float64) []Constraint {
	zero := set.NewIntervalSet1d(0, 0)
	return []Constraint{
		PoseConstraint{
			TranslationSet: set.RectangularSet2d{XRange: set.NewIntervalSet1d(x, x), YRange: set.NewIntervalSet1d(y, y)},
			HeadingRange:   set.NewIntervalSet1d(heading, heading),
		},
		VelocityConstraint{Set: set.RectangularSet2d{XRange: zero, YRange: zero}},
		AngularVelocityConstraint{Range: zero},
	}
}

func straightLinePath() Path {
	return Path{
		Bumpers: unitSquareBumpers(),
		Waypoints: []Waypoint{
			{ControlIntervalCount: 0, WaypointConstraints: restPinConstraints(0, 0, 0)},
			{ControlIntervalCount: 30, WaypointConstraints: restPinConstraints(4, 0, 0)},
		},
	}
}

func TestTotalSampleCount(t *testing.T) {
	p := straightLinePath()
	test.That(t, p.TotalSampleCount(), test.ShouldEqual, 31)
}

func TestValidateAcceptsWellFormedPath(t *testing.T) {
	test.That(t, Validate(straightLinePath()), test.ShouldBeNil)
}

// TestValidateRejectsInvalidEllipticalSet covers scenario C: an invalid
// EllipticalSet2d used in a constraint must raise IncompatibleTrajectory
// at build time, not at solve time.
func TestValidateRejectsInvalidEllipticalSet(t *testing.T) {
	p := straightLinePath()
	p.Waypoints[1].WaypointConstraints = append(p.Waypoints[1].WaypointConstraints,
		TranslationConstraint{Set: set.EllipticalSet2d{XRadius: -1, YRadius: 1, Direction: set.DirectionInside}})

	err := Validate(p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "incompatible trajectory")
}

// TestValidateRejectsInvalidSetOnLeadingWaypoint covers the leading
// waypoint specifically: its ControlIntervalCount == 0 special case must
// not also exempt its WaypointConstraints from validation.
func TestValidateRejectsInvalidSetOnLeadingWaypoint(t *testing.T) {
	p := straightLinePath()
	p.Waypoints[0].WaypointConstraints = append(p.Waypoints[0].WaypointConstraints,
		TranslationConstraint{Set: set.EllipticalSet2d{XRadius: -1, YRadius: 1, Direction: set.DirectionInside}})

	err := Validate(p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "incompatible trajectory")
}

// TestValidateRejectsEmptySegment covers scenario F: a non-leading
// waypoint with a zero control interval count is rejected.
func TestValidateRejectsEmptySegment(t *testing.T) {
	p := straightLinePath()
	p.Waypoints[1].ControlIntervalCount = 0

	err := Validate(p)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "control interval count")
}

func TestValidateRejectsTooFewWaypoints(t *testing.T) {
	p := straightLinePath()
	p.Waypoints = p.Waypoints[:1]

	err := Validate(p)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateRejectsDegenerateBumpers(t *testing.T) {
	p := straightLinePath()
	p.Bumpers = []r2.Point{{X: 0, Y: 0}}

	err := Validate(p)
	test.That(t, err, test.ShouldNotBeNil)
}
