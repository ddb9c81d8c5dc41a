package reagent

import "sync"

// SessionRegistry tracks in-flight streaming sessions so they can be
// cancelled out of band. Cancellation is cooperative: the run keeps
// executing to completion, but no further events are emitted for a
// cancelled session.
//
// The zero value is not usable; construct with NewSessionRegistry. All
// methods are safe for concurrent use.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]bool // sessionID -> cancelled
}

func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{sessions: make(map[string]bool)}
}

// Register adds a session in the not-cancelled state. Registering an
// existing session resets its cancelled flag.
func (r *SessionRegistry) Register(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[sessionID] = false
}

// Cancel marks the session cancelled. It reports whether the session was
// registered; cancelling an unknown session is a no-op.
func (r *SessionRegistry) Cancel(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sessionID]; !ok {
		return false
	}
	r.sessions[sessionID] = true
	return true
}

// Cancelled reports whether the session has been cancelled. Unknown
// sessions report false.
func (r *SessionRegistry) Cancelled(sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[sessionID]
}

// Remove deletes the session. Call when the run has finished.
func (r *SessionRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// Active returns the number of registered sessions, cancelled or not.
func (r *SessionRegistry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
