package trial

// state.go contains the trial lifecycle states.

// State identifies where a trial is in its lifecycle.
type State int

const (
	// StateIdle is the initial state, before Run is called.
	StateIdle State = iota

	// StateGroupStarting covers workload and sampler startup.
	StateGroupStarting

	// StateWarmingUp covers the non-cancelable warmup sleep.
	StateWarmingUp

	// StateMeasuring covers the measurement action.
	StateMeasuring

	// StateTearingDown covers monitor and workload teardown. Every run
	// passes through it exactly once, on success and on failure.
	StateTearingDown

	// StateComplete is the terminal state.
	StateComplete
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateGroupStarting:
		return "group-starting"
	case StateWarmingUp:
		return "warming-up"
	case StateMeasuring:
		return "measuring"
	case StateTearingDown:
		return "tearing-down"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions can occur.
func (s State) IsTerminal() bool {
	return s == StateComplete
}
