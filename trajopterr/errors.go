// Package trajopterr holds the two error kinds surfaced across set, path
// and problem: a user-facing validation error raised synchronously while
// building a problem, and a terminal error wrapping whatever an Opti
// backend's Solve call failed with.
package trajopterr

import "github.com/pkg/errors"

// IncompatibleTrajectoryError reports that some path, waypoint, constraint
// or set parameter is structurally invalid or violates its own stated
// bounds (for instance, an EllipticalSet2d with a negative radius, a
// non-leading waypoint with no control intervals, or a drivetrain with
// non-positive mass). It is always
// raised synchronously at problem-build time, never mid-solve.
type IncompatibleTrajectoryError struct {
	reason string
}

// NewIncompatibleTrajectoryError builds an IncompatibleTrajectoryError from
// a formatted reason; callers should use fmt.Sprintf to build reason.
func NewIncompatibleTrajectoryError(reason string) *IncompatibleTrajectoryError {
	return &IncompatibleTrajectoryError{reason: reason}
}

func (e *IncompatibleTrajectoryError) Error() string {
	return "incompatible trajectory: " + e.reason
}

// TrajectoryGenerationError wraps the underlying Opti backend's solve
// failure (non-convergence or cancellation) behind a stable error type, so
// callers can distinguish a solver failure from a build-time validation
// failure with a type assertion rather than string matching.
type TrajectoryGenerationError struct {
	cause error
}

// NewTrajectoryGenerationError wraps cause, which should be the error
// returned directly from an Opti backend's Solve method.
func NewTrajectoryGenerationError(cause error) *TrajectoryGenerationError {
	return &TrajectoryGenerationError{cause: errors.WithStack(cause)}
}

func (e *TrajectoryGenerationError) Error() string {
	return "trajectory generation failed: " + e.cause.Error()
}

// Unwrap lets errors.Is/errors.As see through to the backend's own error.
func (e *TrajectoryGenerationError) Unwrap() error {
	return e.cause
}
