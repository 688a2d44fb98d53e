package history

// State is the activity the manager is currently performing.
type State int

const (
	// StateIdle is the initial and resting state.
	StateIdle State = iota
	// StateUndoing is active while an undo transaction is replayed.
	StateUndoing
	// StateRedoing is active while a redo transaction is replayed.
	StateRedoing
	// StateCommitting is active while open transactions are committed.
	StateCommitting
	// StateRollingBack is active while open transactions are rolled back.
	// Registrations are ignored in this state.
	StateRollingBack
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateUndoing:
		return "undoing"
	case StateRedoing:
		return "redoing"
	case StateCommitting:
		return "committing"
	case StateRollingBack:
		return "rolling-back"
	default:
		return "unknown"
	}
}

// enterState switches the manager to s and returns a func restoring the
// previous state. Use with defer:
//
//	defer m.enterState(StateUndoing)()
func (m *Manager) enterState(s State) func() {
	prev := m.state
	m.state = s
	return func() {
		m.state = prev
	}
}
