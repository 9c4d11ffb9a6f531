package camera

import "sync"

// Tracker holds the permission state per booth session. The shell owns the
// actual device handle and reports lifecycle events over the wire; the
// tracker keeps the authoritative state the UI renders from.
type Tracker struct {
	mu     sync.Mutex
	states map[string]PermissionState
}

func NewTracker() *Tracker {
	return &Tracker{states: make(map[string]PermissionState)}
}

// State returns the session's permission state, Prompt for sessions that
// have not reported anything yet.
func (t *Tracker) State(sessionID string) PermissionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.states[sessionID]
}

// Apply runs one transition for the session. An illegal transition leaves
// the stored state untouched and returns the error.
func (t *Tracker) Apply(sessionID string, ev PermissionEvent, msg string) (PermissionState, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	next, err := t.states[sessionID].Apply(ev, msg)
	if err != nil {
		return t.states[sessionID], err
	}
	t.states[sessionID] = next
	return next, nil
}

// Drop forgets the session's state when the booth closes.
func (t *Tracker) Drop(sessionID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.states, sessionID)
}
