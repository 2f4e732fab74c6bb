// Package trajectory holds the pure value types a solved problem produces:
// a time-indexed sequence of holonomic chassis states.
package trajectory

// HolonomicState is one sampled chassis pose, velocity and acceleration.
type HolonomicState struct {
	X, Y, Theta    float64
	Vx, Vy, Omega  float64
	Ax, Ay, Alpha  float64
}

// HolonomicTrajectorySample pairs a state with the interval duration that
// precedes it (the dt between the previous sample and this one).
type HolonomicTrajectorySample struct {
	Dt    float64
	State HolonomicState
}

// HolonomicTrajectory is the initial state plus the ordered sequence of
// samples that follow it. Its length is 1 + len(Samples).
type HolonomicTrajectory struct {
	InitialState HolonomicState
	Samples      []HolonomicTrajectorySample
}

// TotalTime returns the sum of every sample's Dt.
func (t HolonomicTrajectory) TotalTime() float64 {
	total := 0.0
	for _, s := range t.Samples {
		total += s.Dt
	}
	return total
}

// States returns the full ordered sequence of states, InitialState
// followed by every sample's State, for callers that want to iterate
// without distinguishing the seed state from the rest.
func (t HolonomicTrajectory) States() []HolonomicState {
	states := make([]HolonomicState, 0, len(t.Samples)+1)
	states = append(states, t.InitialState)
	for _, s := range t.Samples {
		states = append(states, s.State)
	}
	return states
}
