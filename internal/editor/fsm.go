package editor

// State represents where the per-day edit session is in its submit flow.
type State string

const (
	StateEditing              State = "editing"
	StateValidating           State = "validating"
	StateValidationFailed     State = "validation_failed"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateReady                State = "ready"
	StateSaving               State = "saving"
	StateSaved                State = "saved"
	StateSaveFailed           State = "save_failed"
)

// FSM manages the allowed transitions of the edit flow.
type FSM struct {
	transitions map[State][]State
}

// NewFSM creates an FSM with the submit-flow transitions: validation
// failures and save failures fall back to editing with the buffer intact,
// and a day-off conflict detours through an explicit confirmation step.
func NewFSM() *FSM {
	return &FSM{
		transitions: map[State][]State{
			StateEditing:              {StateValidating},
			StateValidating:           {StateValidationFailed, StateAwaitingConfirmation, StateReady},
			StateValidationFailed:     {StateEditing},
			StateAwaitingConfirmation: {StateSaving, StateEditing},
			StateReady:                {StateSaving},
			StateSaving:               {StateSaved, StateSaveFailed},
			StateSaveFailed:           {StateEditing},
		},
	}
}

// CanTransition checks if the transition is allowed.
func (f *FSM) CanTransition(from, to State) bool {
	for _, s := range f.transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition updates the session state if the transition is allowed.
func (f *FSM) Transition(session *Session, to State) bool {
	if !f.CanTransition(session.State, to) {
		return false
	}
	session.State = to
	return true
}
