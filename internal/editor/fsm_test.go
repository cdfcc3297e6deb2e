package editor

import "testing"

func TestFSMTransitions(t *testing.T) {
	fsm := NewFSM()

	tests := []struct {
		name        string
		from        State
		to          State
		shouldAllow bool
	}{
		{"editing to validating", StateEditing, StateValidating, true},
		{"validating to failed", StateValidating, StateValidationFailed, true},
		{"validating to awaiting confirmation", StateValidating, StateAwaitingConfirmation, true},
		{"validating to ready", StateValidating, StateReady, true},
		{"failed back to editing", StateValidationFailed, StateEditing, true},
		{"awaiting confirmation to saving", StateAwaitingConfirmation, StateSaving, true},
		{"awaiting confirmation back to editing", StateAwaitingConfirmation, StateEditing, true},
		{"ready to saving", StateReady, StateSaving, true},
		{"saving to saved", StateSaving, StateSaved, true},
		{"saving to save failed", StateSaving, StateSaveFailed, true},
		{"save failed back to editing", StateSaveFailed, StateEditing, true},
		// Invalid transitions
		{"editing straight to saving", StateEditing, StateSaving, false},
		{"validating straight to saved", StateValidating, StateSaved, false},
		{"ready back to editing", StateReady, StateEditing, false},
		{"saved anywhere", StateSaved, StateEditing, false},
		{"awaiting confirmation to saved", StateAwaitingConfirmation, StateSaved, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			allowed := fsm.CanTransition(tt.from, tt.to)
			if allowed != tt.shouldAllow {
				t.Errorf("transition %s -> %s: expected allowed=%v, got %v",
					tt.from, tt.to, tt.shouldAllow, allowed)
			}
		})
	}
}

func TestFSMTransitionUpdatesSession(t *testing.T) {
	fsm := NewFSM()
	session := &Session{State: StateEditing}

	if !fsm.Transition(session, StateValidating) {
		t.Fatal("transition to validating should succeed")
	}
	if session.State != StateValidating {
		t.Errorf("expected %s, got %s", StateValidating, session.State)
	}

	if fsm.Transition(session, StateSaved) {
		t.Error("validating -> saved should be rejected")
	}
	if session.State != StateValidating {
		t.Error("state should be unchanged after a rejected transition")
	}
}
