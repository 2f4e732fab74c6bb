package path

import (
	"fmt"

	"go.viam.com/trajopt/set"
	"go.viam.com/trajopt/trajopterr"
)

// Validate checks p's structural invariants and every constraint/set
// parameter it carries, returning an *trajopterr.IncompatibleTrajectoryError
// for the first problem found. It is run once at the top of
// problem.Generate, before any decision variable is allocated.
func Validate(p Path) error {
	if len(p.Waypoints) < 2 {
		return trajopterr.NewIncompatibleTrajectoryError(
			fmt.Sprintf("path must have at least 2 waypoints, got %d", len(p.Waypoints)))
	}
	if len(p.Bumpers) < 3 {
		return trajopterr.NewIncompatibleTrajectoryError(
			fmt.Sprintf("bumper polygon must have at least 3 vertices, got %d", len(p.Bumpers)))
	}

	if p.Waypoints[0].ControlIntervalCount != 0 {
		return trajopterr.NewIncompatibleTrajectoryError(
			"leading waypoint must have a control interval count of 0")
	}
	for i, wp := range p.Waypoints {
		if i > 0 && wp.ControlIntervalCount <= 0 {
			return trajopterr.NewIncompatibleTrajectoryError(
				fmt.Sprintf("waypoint %d has a non-positive control interval count %d", i, wp.ControlIntervalCount))
		}
		for _, c := range wp.WaypointConstraints {
			if err := validateConstraint(c); err != nil {
				return err
			}
		}
		for _, c := range wp.SegmentConstraints {
			if err := validateConstraint(c); err != nil {
				return err
			}
		}
	}
	for _, c := range p.GlobalConstraints {
		if err := validateConstraint(c); err != nil {
			return err
		}
	}
	return nil
}

func validateConstraint(c Constraint) error {
	switch v := c.(type) {
	case TranslationConstraint:
		return validateSet2d(v.Set)
	case HeadingConstraint:
		return validateInterval(v.Range)
	case PoseConstraint:
		if err := validateSet2d(v.TranslationSet); err != nil {
			return err
		}
		return validateInterval(v.HeadingRange)
	case VelocityConstraint:
		return validateSet2d(v.Set)
	case AngularVelocityConstraint:
		return validateInterval(v.Range)
	case ObstacleConstraint:
		return validateObstacle(v.Obstacle)
	default:
		panic("path: unhandled Constraint variant in Validate")
	}
}

func validateSet2d(s set.Set2d) error {
	if !set.IsValid(s) {
		return trajopterr.NewIncompatibleTrajectoryError(fmt.Sprintf("invalid Set2d: %#v", s))
	}
	return nil
}

func validateInterval(i set.IntervalSet1d) error {
	if !i.IsValid() {
		return trajopterr.NewIncompatibleTrajectoryError(
			fmt.Sprintf("invalid IntervalSet1d: lo=%g hi=%g", i.Lo, i.Hi))
	}
	return nil
}

func validateObstacle(o Obstacle) error {
	if o.SafetyRadius < 0 {
		return trajopterr.NewIncompatibleTrajectoryError(
			fmt.Sprintf("obstacle safety radius %g must be non-negative", o.SafetyRadius))
	}
	if len(o.Vertices) < 3 {
		return trajopterr.NewIncompatibleTrajectoryError(
			fmt.Sprintf("obstacle polygon must have at least 3 vertices, got %d", len(o.Vertices)))
	}
	return nil
}
