package problem

import (
	"testing"

	"go.viam.com/test"

	"go.viam.com/trajopt/path"
)

func TestLastSampleIndices(t *testing.T) {
	p := path.Path{Waypoints: []path.Waypoint{
		{ControlIntervalCount: 0},
		{ControlIntervalCount: 5},
		{ControlIntervalCount: 3},
	}}

	test.That(t, lastSampleIndices(p), test.ShouldResemble, []int{0, 5, 8})
}
