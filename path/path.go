// Package path holds the declarative, caller-constructed description of a
// trajectory request: waypoints with their constraints and initial-guess
// seeding, the obstacle field, and the chassis footprint used for
// obstacle avoidance. Values here are pure and immutable once built;
// problem consumes them exactly once to assemble an optimization problem.
package path

import "github.com/golang/geo/r2"

// InitialGuessPoint is one control point of the seeding spline: a pose
// used only to guide the solver toward a reasonable starting trajectory.
type InitialGuessPoint struct {
	X, Y, Heading float64
}

// Waypoint is one holonomic pose the path must reach, carrying both the
// hard constraints enforced at its own sample and the per-segment
// constraints enforced along the interval leading up to it.
type Waypoint struct {
	// WaypointConstraints apply only to this waypoint's own sample.
	WaypointConstraints []Constraint
	// SegmentConstraints apply to every non-terminal sample of the
	// interval ending at this waypoint.
	SegmentConstraints []Constraint
	// ControlIntervalCount is the number of interior+final samples this
	// waypoint contributes (N_i in the sample-count invariant). The
	// leading waypoint always has ControlIntervalCount 0.
	ControlIntervalCount int
	// InitialGuessPoints seeds the spline segment ending at this
	// waypoint; by convention its own pose is the final entry.
	InitialGuessPoints []InitialGuessPoint
}

// Obstacle is a safety-inflated polygon the chassis bumper must stay
// clear of. Vertices are ordered, in world frame, forming a convex or
// non-convex closed region.
type Obstacle struct {
	SafetyRadius float64
	Vertices     []r2.Point
}

// Path is the full caller-supplied trajectory request: an ordered
// sequence of waypoints (length >= 2), global constraints applied to
// every sample, and the bumper polygon (in chassis frame) used against
// every ObstacleConstraint.
type Path struct {
	Waypoints         []Waypoint
	GlobalConstraints []Constraint
	Bumpers           []r2.Point
}

// TotalSampleCount returns S = 1 + sum of ControlIntervalCount over all
// waypoints, per the sample-count invariant.
func (p Path) TotalSampleCount() int {
	s := 1
	for _, wp := range p.Waypoints {
		s += wp.ControlIntervalCount
	}
	return s
}
