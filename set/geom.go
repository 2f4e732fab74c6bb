package set

// Vec2 is a plain 2D vector, used instead of github.com/golang/geo/r2.Point
// for the fixed-frame polygon-edge geometry the obstacle constraint builds:
// bare (X, Y) fields are all that computation needs.
type Vec2 struct {
	X, Y float64
}
