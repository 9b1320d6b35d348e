package router

import (
	"sync"
)

// Listeners is an ordered registry of typed event listeners. Add and the
// returned remove function are synchronous; Emit calls listeners in
// registration order.
type Listeners[T any] struct {
	mu      sync.Mutex
	nextID  int
	entries []listenerEntry[T]
}

type listenerEntry[T any] struct {
	id int
	fn func(T)
}

// NewListeners creates an empty listener registry
func NewListeners[T any]() *Listeners[T] {
	return &Listeners[T]{}
}

// Add registers a listener and returns a function that removes it
func (l *Listeners[T]) Add(fn func(T)) (remove func()) {
	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.entries = append(l.entries, listenerEntry[T]{id: id, fn: fn})
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		for i := range l.entries {
			if l.entries[i].id == id {
				l.entries = append(l.entries[:i], l.entries[i+1:]...)
				return
			}
		}
	}
}

// Emit delivers the event to every registered listener in registration order.
// Listeners registered or removed during emission take effect on the next
// Emit.
func (l *Listeners[T]) Emit(event T) {
	l.mu.Lock()
	snapshot := make([]listenerEntry[T], len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()

	for _, entry := range snapshot {
		entry.fn(event)
	}
}

// Len returns the number of registered listeners
func (l *Listeners[T]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
