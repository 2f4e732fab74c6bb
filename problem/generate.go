package problem

import (
	"context"

	"go.uber.org/zap"

	"go.viam.com/trajopt/drivetrain"
	"go.viam.com/trajopt/opti"
	"go.viam.com/trajopt/opti/expr"
	"go.viam.com/trajopt/opti/nativeopti"
	"go.viam.com/trajopt/opti/nloptopti"
	"go.viam.com/trajopt/path"
	"go.viam.com/trajopt/trajectory"
	"go.viam.com/trajopt/trajopterr"
)

type backendKind int

const (
	backendNative backendKind = iota
	backendNlopt
)

type config struct {
	backend backendKind
	logger  *zap.SugaredLogger
	ctx     context.Context
}

// Option configures a single Generate call: backend choice, an optional
// logger, and a context for cooperative cancellation of the solve. There
// is no other configuration surface, per spec.md section 6.
type Option func(*config)

// WithNativeBackend selects the pure-Go augmented-Lagrangian backend
// (opti/nativeopti). This is the default; the option exists for callers
// that build their Option slice explicitly rather than relying on it.
func WithNativeBackend() Option {
	return func(c *config) { c.backend = backendNative }
}

// WithNloptBackend selects the github.com/go-nlopt/nlopt SLSQP backend
// (opti/nloptopti).
func WithNloptBackend() Option {
	return func(c *config) { c.backend = backendNlopt }
}

// WithLogger attaches a *zap.SugaredLogger for structured progress
// logging. A nil logger (the default) means silent operation.
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(c *config) { c.logger = logger }
}

// WithContext threads ctx down to the backend's Solve call for
// cooperative cancellation, in addition to the process-wide cancellation
// flag in opti.GetCancellationFlag.
func WithContext(ctx context.Context) Option {
	return func(c *config) { c.ctx = ctx }
}

// Generate is the sole external entry point of the core: it validates p,
// builds the optimization problem for dt, solves it, and reconstructs a
// HolonomicTrajectory from the solution. Validation failures return an
// *trajopterr.IncompatibleTrajectoryError without invoking a solver;
// solve failures (infeasible, diverged, cancelled) return an
// *trajopterr.TrajectoryGenerationError wrapping the backend's message.
// No partial trajectory is ever returned on error.
func Generate(dt drivetrain.SwerveDrivetrain, p path.Path, opts ...Option) (trajectory.HolonomicTrajectory, error) {
	cfg := config{backend: backendNative, ctx: context.Background()}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := path.Validate(p); err != nil {
		return trajectory.HolonomicTrajectory{}, err
	}
	if !dt.IsValid() {
		return trajectory.HolonomicTrajectory{}, trajopterr.NewIncompatibleTrajectoryError(
			"drivetrain parameters are invalid")
	}

	if cfg.logger != nil {
		cfg.logger.Debugw("building trajectory optimization problem",
			"waypoints", len(p.Waypoints), "samples", p.TotalSampleCount())
	}

	var o opti.Opti[expr.Node]
	switch cfg.backend {
	case backendNlopt:
		if cfg.logger != nil {
			cfg.logger.Info("using nlopt backend")
		}
		o = nloptopti.New()
	default:
		if cfg.logger != nil {
			cfg.logger.Info("using native backend")
		}
		o = nativeopti.New()
	}

	b := newBuilder(o, dt, p)
	b.applyKinematics()
	b.applyTimeBoundsAndObjective()
	b.applyDynamics()
	b.applyConstraints()
	b.seedInitialGuess()

	if err := o.Solve(cfg.ctx); err != nil {
		if cfg.logger != nil {
			cfg.logger.Warnw("trajectory solve failed", "error", err)
		}
		return trajectory.HolonomicTrajectory{}, trajopterr.NewTrajectoryGenerationError(err)
	}

	return b.extractTrajectory(o), nil
}

// extractTrajectory reads every decision variable's solved value back out
// of o and assembles the initial state plus the ordered sample sequence.
func (b *builder) extractTrajectory(o opti.Opti[expr.Node]) trajectory.HolonomicTrajectory {
	state := func(k int) trajectory.HolonomicState {
		sv := b.samples[k]
		return trajectory.HolonomicState{
			X: o.SolutionValue(sv.X), Y: o.SolutionValue(sv.Y), Theta: o.SolutionValue(sv.Theta),
			Vx: o.SolutionValue(sv.Vx), Vy: o.SolutionValue(sv.Vy), Omega: o.SolutionValue(sv.Omega),
			Ax: o.SolutionValue(sv.Ax), Ay: o.SolutionValue(sv.Ay), Alpha: o.SolutionValue(sv.Alpha),
		}
	}

	traj := trajectory.HolonomicTrajectory{InitialState: state(0)}
	for k := 1; k < len(b.samples); k++ {
		traj.Samples = append(traj.Samples, trajectory.HolonomicTrajectorySample{
			Dt:    o.SolutionValue(b.dts[k-1]),
			State: state(k),
		})
	}
	return traj
}
