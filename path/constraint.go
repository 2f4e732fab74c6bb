package path

import "go.viam.com/trajopt/set"

// Constraint is the sealed union of the six constraint kinds a waypoint,
// segment or the whole path can carry. Like set.Set2d, its variants are
// distinguished by an exhaustive type switch rather than by interface
// methods, keeping the union closed to this package.
type Constraint interface {
	isConstraint()
}

// TranslationConstraint restricts (x, y) to a Set2d.
type TranslationConstraint struct {
	Set set.Set2d
}

// HeadingConstraint restricts heading to an interval.
type HeadingConstraint struct {
	Range set.IntervalSet1d
}

// PoseConstraint restricts both (x, y) and heading.
type PoseConstraint struct {
	TranslationSet set.Set2d
	HeadingRange   set.IntervalSet1d
}

// VelocityConstraint restricts (vx, vy) to a Set2d.
type VelocityConstraint struct {
	Set set.Set2d
}

// AngularVelocityConstraint restricts angular velocity to an interval.
type AngularVelocityConstraint struct {
	Range set.IntervalSet1d
}

// ObstacleConstraint requires the chassis bumper to stay clear of an
// inflated obstacle polygon.
type ObstacleConstraint struct {
	Obstacle Obstacle
}

func (TranslationConstraint) isConstraint()     {}
func (HeadingConstraint) isConstraint()         {}
func (PoseConstraint) isConstraint()            {}
func (VelocityConstraint) isConstraint()        {}
func (AngularVelocityConstraint) isConstraint() {}
func (ObstacleConstraint) isConstraint()        {}
