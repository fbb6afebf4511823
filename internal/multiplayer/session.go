package multiplayer

import (
	"sort"
	"sync"
	"time"
)

// Session describes one connected play session. Every session owns its own
// engine; sessions never share world state.
type Session struct {
	ID        SessionID
	User      string
	StartedAt time.Time

	done     chan struct{}
	doneOnce sync.Once
}

// NewSession creates a session record.
func NewSession(id SessionID, user string, startedAt time.Time) *Session {
	return &Session{
		ID:        id,
		User:      user,
		StartedAt: startedAt,
		done:      make(chan struct{}),
	}
}

// Done returns a channel that closes when the session ends.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close marks the session as done.
// Safe to call multiple times.
func (s *Session) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

// SessionRegistry tracks active sessions.
// Thread-safe for concurrent access.
type SessionRegistry struct {
	mu       sync.RWMutex
	sessions map[SessionID]*Session
}

// NewSessionRegistry creates a new session registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		sessions: make(map[SessionID]*Session),
	}
}

// Register adds a session to the registry.
func (r *SessionRegistry) Register(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID] = session
}

// Unregister removes a session from the registry and closes it.
func (r *SessionRegistry) Unregister(id SessionID) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.Close()
	}
}

// Get retrieves a session by ID.
func (r *SessionRegistry) Get(id SessionID) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Count returns the number of registered sessions.
func (r *SessionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// List returns the registered sessions, oldest first.
func (r *SessionRegistry) List() []*Session {
	r.mu.RLock()
	out := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

// CloseAll closes and removes every session.
func (r *SessionRegistry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[SessionID]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}
