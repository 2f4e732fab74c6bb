package problem

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/trajopt/opti/expr"
	"go.viam.com/trajopt/path"
	"go.viam.com/trajopt/set"
)

// applyConstraints dispatches every constraint the path carries to the
// sample(s) it belongs against, per spec.md section 4.4's application
// rule: waypoint constraints at the terminal sample of their interval,
// segment constraints at every non-terminal sample of their interval,
// global constraints at every sample.
func (b *builder) applyConstraints() {
	for _, c := range b.p.GlobalConstraints {
		for k := range b.samples {
			b.applyConstraint(c, k)
		}
	}

	start := 0
	for i, wp := range b.p.Waypoints {
		end := b.lastSampleIndex[i]
		for _, c := range wp.SegmentConstraints {
			for k := start; k < end; k++ {
				b.applyConstraint(c, k)
			}
		}
		for _, c := range wp.WaypointConstraints {
			b.applyConstraint(c, end)
		}
		start = end + 1
	}
}

func (b *builder) applyConstraint(c path.Constraint, k int) {
	s := b.samples[k]
	switch v := c.(type) {
	case path.TranslationConstraint:
		set.Apply2d(b.o, v.Set, s.X, s.Y)
	case path.HeadingConstraint:
		set.Apply1d(b.o, v.Range, s.Theta)
	case path.PoseConstraint:
		set.Apply2d(b.o, v.TranslationSet, s.X, s.Y)
		set.Apply1d(b.o, v.HeadingRange, s.Theta)
	case path.VelocityConstraint:
		set.Apply2d(b.o, v.Set, s.Vx, s.Vy)
	case path.AngularVelocityConstraint:
		set.Apply1d(b.o, v.Range, s.Omega)
	case path.ObstacleConstraint:
		b.applyObstacleConstraint(v.Obstacle, k)
	default:
		panic("problem: unhandled Constraint variant in applyConstraint")
	}
}

// obstacleSharpness scales the log-sum-exp relaxation of the obstacle
// separation's OR-of-margins shape: as sharpness grows, smoothMax
// approaches the true maximum over candidate separating axes arbitrarily
// closely, at the cost of a harder-to-solve objective landscape.
const obstacleSharpness = 30.0

// polyEdge is one fixed-frame polygon edge: its start vertex and outward
// unit normal, both plain float64 since they never depend on a decision
// variable (bumper edges are rigid in chassis frame, obstacle edges are
// rigid in world frame).
type polyEdge struct {
	Start  set.Vec2
	Normal set.Vec2
}

// polygonEdges returns the outward-normal edges of a closed, CCW-ordered
// polygon. Vertices are assumed ordered per spec.md section 3.
func polygonEdges(pts []r2.Point) []polyEdge {
	n := len(pts)
	edges := make([]polyEdge, n)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		ex, ey := b.X-a.X, b.Y-a.Y
		nx, ny := ey, -ex
		if norm := math.Hypot(nx, ny); norm > 0 {
			nx, ny = nx/norm, ny/norm
		}
		edges[i] = polyEdge{Start: set.Vec2{X: a.X, Y: a.Y}, Normal: set.Vec2{X: nx, Y: ny}}
	}
	return edges
}

// applyObstacleConstraint requires the pose-transformed bumper polygon to
// be separated from obs's (safety-inflated) polygon by at least
// obs.SafetyRadius, at sample k. The separating-axis margin between two
// convex polygons is the max over every edge normal of (min vertex
// projection of the other polygon onto that normal) minus (that edge's
// own projection); this builds the simpler, equivalent pairwise form
// spec.md section 4.4/section 9 permits: for every bumper-edge/
// obstacle-vertex and obstacle-edge/bumper-vertex pair, the signed
// distance from the vertex to the edge's line is a candidate separating
// margin, and requiring at least one candidate to meet the safety radius
// is the convex relaxation of "the polygons do not overlap." Bumper-edge
// margins are computed in chassis frame (rotating the obstacle vertex by
// -theta instead of rotating the bumper edge's normal by +theta), since a
// rigid rotation preserves distance and the chassis-frame edge geometry
// is then a build-time constant rather than itself a decision-dependent
// quantity.
func (b *builder) applyObstacleConstraint(obs path.Obstacle, k int) {
	tape := b.tape
	s := b.samples[k]
	sinT := s.Theta.Sin()
	cosT := s.Theta.Cos()

	var margins []expr.Node

	for _, edge := range polygonEdges(b.p.Bumpers) {
		for _, ov := range obs.Vertices {
			dx := tape.Const(ov.X).Sub(s.X)
			dy := tape.Const(ov.Y).Sub(s.Y)
			relX := dx.Mul(cosT).Add(dy.Mul(sinT))
			relY := dy.Mul(cosT).Sub(dx.Mul(sinT))

			vx := relX.SubC(edge.Start.X)
			vy := relY.SubC(edge.Start.Y)
			margin := vx.MulC(edge.Normal.X).Add(vy.MulC(edge.Normal.Y)).SubC(obs.SafetyRadius)
			margins = append(margins, margin)
		}
	}

	for _, edge := range polygonEdges(obs.Vertices) {
		for _, bv := range b.p.Bumpers {
			wx := s.X.Add(tape.Const(bv.X).Mul(cosT)).Sub(tape.Const(bv.Y).Mul(sinT))
			wy := s.Y.Add(tape.Const(bv.X).Mul(sinT)).Add(tape.Const(bv.Y).Mul(cosT))

			vx := wx.SubC(edge.Start.X)
			vy := wy.SubC(edge.Start.Y)
			margin := vx.MulC(edge.Normal.X).Add(vy.MulC(edge.Normal.Y)).SubC(obs.SafetyRadius)
			margins = append(margins, margin)
		}
	}

	b.o.SubjectTo(smoothMax(tape, margins, obstacleSharpness).Ge(tape.Const(0)))
}

// smoothMax returns a differentiable approximation of max(margins) via
// log-sum-exp, tightening toward the true maximum as sharpness grows.
// Used so the obstacle constraint's "at least one candidate axis
// separates" disjunction is a single smooth expression an Opti backend
// can consume.
func smoothMax(tape *expr.Tape, margins []expr.Node, sharpness float64) expr.Node {
	sum := tape.Const(0)
	for _, m := range margins {
		sum = sum.Add(m.MulC(sharpness).Exp())
	}
	return sum.Log().DivC(sharpness)
}
