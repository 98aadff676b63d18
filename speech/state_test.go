package speech

import "testing"

func TestMachineTransitions(t *testing.T) {
	tests := []struct {
		name  string
		path  []State
		from  State
		to    State
		valid bool
	}{
		{name: "idle to speaking", to: StateSpeaking, valid: true},
		{name: "idle to paused", to: StatePaused, valid: false},
		{name: "speaking to paused", path: []State{StateSpeaking}, to: StatePaused, valid: true},
		{name: "speaking to idle", path: []State{StateSpeaking}, to: StateIdle, valid: true},
		{name: "paused to speaking", path: []State{StateSpeaking, StatePaused}, to: StateSpeaking, valid: true},
		{name: "paused to idle", path: []State{StateSpeaking, StatePaused}, to: StateIdle, valid: true},
		{name: "same state is a no-op", path: []State{StateSpeaking}, to: StateSpeaking, valid: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine()
			for _, s := range tt.path {
				if !m.Transition(s) {
					t.Fatalf("setup transition to %v failed", s)
				}
			}
			before := m.Current()
			got := m.Transition(tt.to)
			if got != tt.valid {
				t.Errorf("Transition(%v) = %v, want %v", tt.to, got, tt.valid)
			}
			if !tt.valid && m.Current() != before {
				t.Errorf("invalid transition changed state to %v", m.Current())
			}
			if tt.valid && m.Current() != tt.to {
				t.Errorf("state = %v, want %v", m.Current(), tt.to)
			}
		})
	}
}

func TestMachineGuards(t *testing.T) {
	m := NewMachine()
	if m.CanPause() {
		t.Error("CanPause from idle should be false")
	}
	if m.CanResume() {
		t.Error("CanResume from idle should be false")
	}

	m.Transition(StateSpeaking)
	if !m.CanPause() {
		t.Error("CanPause from speaking should be true")
	}

	m.Transition(StatePaused)
	if !m.CanResume() {
		t.Error("CanResume from paused should be true")
	}
	if m.CanPause() {
		t.Error("CanPause from paused should be false")
	}
}
