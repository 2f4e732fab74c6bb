// Command trajoptdemo is a small external-collaborator CLI: it builds one
// of a handful of canned scenarios, runs problem.Generate, and prints the
// resulting trajectory. It is explicitly out of the core's scope
// (spec.md section 1, "command-line demo driver"); no trajectory
// serialization beyond fmt-printing is performed.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/golang/geo/r2"
	"go.uber.org/zap"

	"go.viam.com/trajopt/drivetrain"
	"go.viam.com/trajopt/path"
	"go.viam.com/trajopt/problem"
	"go.viam.com/trajopt/set"
)

func main() {
	scenario := flag.String("scenario", "straight", "scenario to run: straight, detour, square-loop")
	backend := flag.String("backend", "native", "opti backend to use: native, nlopt")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Parse()

	if err := run(*scenario, *backend, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, "trajoptdemo:", err)
		os.Exit(1)
	}
}

func run(scenario, backend string, verbose bool) error {
	dt := demoDrivetrain()

	p, err := buildScenario(scenario)
	if err != nil {
		return err
	}

	var opts []problem.Option
	switch backend {
	case "native":
		opts = append(opts, problem.WithNativeBackend())
	case "nlopt":
		opts = append(opts, problem.WithNloptBackend())
	default:
		return fmt.Errorf("unknown backend %q", backend)
	}

	logger := zap.NewNop().Sugar()
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		logger = l.Sugar()
	}
	opts = append(opts, problem.WithLogger(logger))

	traj, err := problem.Generate(dt, p, opts...)
	if err != nil {
		return err
	}

	fmt.Printf("solved trajectory: %d samples, total time %.3fs\n", len(traj.Samples), traj.TotalTime())
	fmt.Printf("%8s %8s %8s %8s\n", "t", "x", "y", "theta")
	t := 0.0
	fmt.Printf("%8.3f %8.3f %8.3f %8.3f\n", t, traj.InitialState.X, traj.InitialState.Y, traj.InitialState.Theta)
	for _, s := range traj.Samples {
		t += s.Dt
		fmt.Printf("%8.3f %8.3f %8.3f %8.3f\n", t, s.State.X, s.State.Y, s.State.Theta)
	}
	return nil
}

func demoDrivetrain() drivetrain.SwerveDrivetrain {
	module := drivetrain.SwerveModule{WheelRadius: 0.04, WheelMaxAngularVelocity: 70, WheelMaxTorque: 2}
	m := func(x, y float64) drivetrain.SwerveModule {
		mod := module
		mod.X, mod.Y = x, y
		return mod
	}
	return drivetrain.SwerveDrivetrain{
		Mass:            45,
		MomentOfInertia: 6,
		Modules:         []drivetrain.SwerveModule{m(0.6, 0.6), m(0.6, -0.6), m(-0.6, 0.6), m(-0.6, -0.6)},
	}
}

func unitSquareBumpers() []r2.Point {
	return []r2.Point{{X: -0.5, Y: -0.5}, {X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}}
}

func restPin(x, y, heading float64) []path.Constraint {
	zero := set.NewIntervalSet1d(0, 0)
	return []path.Constraint{
		path.PoseConstraint{
			TranslationSet: set.RectangularSet2d{XRange: set.NewIntervalSet1d(x, x), YRange: set.NewIntervalSet1d(y, y)},
			HeadingRange:   set.NewIntervalSet1d(heading, heading),
		},
		path.VelocityConstraint{Set: set.RectangularSet2d{XRange: zero, YRange: zero}},
		path.AngularVelocityConstraint{Range: zero},
	}
}

func buildScenario(name string) (path.Path, error) {
	switch name {
	case "straight":
		return straightScenario(), nil
	case "detour":
		return detourScenario(), nil
	case "square-loop":
		return squareLoopScenario(), nil
	default:
		return path.Path{}, fmt.Errorf("unknown scenario %q", name)
	}
}

// straightScenario is spec.md section 8 scenario A.
func straightScenario() path.Path {
	return path.Path{
		Bumpers: unitSquareBumpers(),
		Waypoints: []path.Waypoint{
			{ControlIntervalCount: 0, WaypointConstraints: restPin(0, 0, 0)},
			{ControlIntervalCount: 30, WaypointConstraints: restPin(4, 0, 0)},
		},
	}
}

// detourScenario is spec.md section 8 scenario B: a straight run with a
// circular obstacle in the middle of the path.
func detourScenario() path.Path {
	obstacle := path.Obstacle{SafetyRadius: 1.0, Vertices: circlePolygon(r2.Point{X: 2, Y: 0}, 1.0, 16)}
	midwayGuess := []path.InitialGuessPoint{{X: 2, Y: 1.6, Heading: 0}}
	return path.Path{
		Bumpers: unitSquareBumpers(),
		Waypoints: []path.Waypoint{
			{ControlIntervalCount: 0, WaypointConstraints: restPin(0, 0, 0)},
			{
				ControlIntervalCount: 36,
				WaypointConstraints:  restPin(4, 0, 0),
				SegmentConstraints:   []path.Constraint{path.ObstacleConstraint{Obstacle: obstacle}},
				InitialGuessPoints:   midwayGuess,
			},
		},
	}
}

// squareLoopScenario supplements spec.md's two named scenarios with the
// multi-waypoint loop path from original_source/Main.cpp's commented-out
// first scenario: a square circuit through four corner waypoints,
// demonstrating a path with more than one intermediate waypoint. Heading
// increases monotonically rather than wrapping at +/-pi, since spec.md
// treats heading ranges as unwrapped reals.
func squareLoopScenario() path.Path {
	corner := func(x, y, heading float64, n int) path.Waypoint {
		return path.Waypoint{ControlIntervalCount: n, WaypointConstraints: restPin(x, y, heading)}
	}
	return path.Path{
		Bumpers: unitSquareBumpers(),
		Waypoints: []path.Waypoint{
			{ControlIntervalCount: 0, WaypointConstraints: restPin(0, 0, 0)},
			corner(4, 0, math.Pi/2, 20),
			corner(4, 4, math.Pi, 20),
			corner(0, 4, 3*math.Pi/2, 20),
			corner(0, 0, 2*math.Pi, 20),
		},
	}
}

func circlePolygon(center r2.Point, radius float64, n int) []r2.Point {
	pts := make([]r2.Point, n)
	for i := 0; i < n; i++ {
		theta := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = r2.Point{X: center.X + radius*math.Cos(theta), Y: center.Y + radius*math.Sin(theta)}
	}
	return pts
}
