package connection

import (
	"sync"

	"github.com/google/uuid"
)

// Connection is a handle to an open session with the presentation backend.
// Handles are compared by identity: a reopened session is a new Connection
// value even when it serializes to the same token.
type Connection interface {
	// Token returns the serializable form of the handle, embedded into
	// every canonical request.
	Token() string

	// OnClose registers fn to run when the connection's close signal
	// fires. The returned function removes the listener.
	OnClose(fn func()) (remove func())
}

// Session is a concrete Connection. It carries a backend token and a
// close signal with removable listeners.
type Session struct {
	token string

	mu        sync.Mutex
	closed    bool
	nextID    int
	listeners map[int]func()
}

// NewSession creates a session for the given backend token. An empty token
// gets a generated one.
func NewSession(token string) *Session {
	if token == "" {
		token = uuid.NewString()
	}
	return &Session{
		token:     token,
		listeners: make(map[int]func()),
	}
}

// Token returns the serializable session token
func (s *Session) Token() string {
	return s.token
}

// OnClose registers a close listener. Registering on an already-closed
// session invokes fn immediately.
func (s *Session) OnClose(fn func()) (remove func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Close fires the close signal. Listeners run once, in no particular order;
// closing twice is a no-op.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.listeners = nil
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Closed reports whether the session's close signal has fired
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
