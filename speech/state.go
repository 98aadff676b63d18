package speech

// State is the controller's playback state. Exactly one request may be
// active at a time; Speaking and Paused are mutually exclusive with Idle.
type State int

const (
	// StateIdle indicates no active request.
	StateIdle State = iota
	// StateSpeaking indicates an utterance is playing.
	StateSpeaking
	// StatePaused indicates an utterance is suspended mid-play.
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSpeaking:
		return "speaking"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Machine validates playback state transitions. It is not safe for
// concurrent use; the controller serializes access under its own lock.
type Machine struct {
	current     State
	transitions map[State][]State
}

// NewMachine creates a state machine starting at Idle with the valid
// playback transitions.
func NewMachine() *Machine {
	return &Machine{
		current: StateIdle,
		transitions: map[State][]State{
			StateIdle:     {StateSpeaking},
			StateSpeaking: {StatePaused, StateIdle},
			StatePaused:   {StateSpeaking, StateIdle},
		},
	}
}

// Transition attempts to move to the given state and reports whether the
// transition was valid. Transitioning to the current state is a no-op that
// reports true.
func (m *Machine) Transition(to State) bool {
	if to == m.current {
		return true
	}
	for _, next := range m.transitions[m.current] {
		if next == to {
			m.current = to
			return true
		}
	}
	return false
}

// Current returns the current state.
func (m *Machine) Current() State {
	return m.current
}

// CanPause reports whether a pause is valid from the current state.
func (m *Machine) CanPause() bool {
	return m.current == StateSpeaking
}

// CanResume reports whether a resume is valid from the current state.
func (m *Machine) CanResume() bool {
	return m.current == StatePaused
}
