package connection

import (
	"sync"

	"github.com/treelinehq/treeline/pkg/log"
	"github.com/treelinehq/treeline/pkg/metrics"
)

// Tracker gates one-time per-connection initialization. The first observation
// of a connection identity fires the hook; later calls for the same still-open
// connection are no-ops. When the connection's close signal fires the identity
// is forgotten, so the next first use triggers the hook again.
type Tracker struct {
	mu    sync.Mutex
	known map[Connection]func()
}

// NewTracker creates an empty tracker
func NewTracker() *Tracker {
	return &Tracker{
		known: make(map[Connection]func()),
	}
}

// EnsureInitialized invokes onFirstUse synchronously if conn has not been
// seen since it was opened. Must be called on every query entry point.
func (t *Tracker) EnsureInitialized(conn Connection, onFirstUse func(Connection)) {
	t.mu.Lock()
	if _, seen := t.known[conn]; seen {
		t.mu.Unlock()
		return
	}
	// Mark before releasing the lock so a concurrent call cannot fire the
	// hook twice for the same connection.
	t.known[conn] = nil
	count := len(t.known)
	t.mu.Unlock()

	metrics.ConnectionsTracked.Set(float64(count))
	logger := log.WithComponent("connection")
	logger.Debug().
		Str("connection_token", conn.Token()).
		Msg("first use, running initialization")

	onFirstUse(conn)

	remove := conn.OnClose(func() {
		t.forget(conn)
	})

	t.mu.Lock()
	if _, still := t.known[conn]; still {
		t.known[conn] = remove
	} else {
		// Closed while we were registering; drop the listener.
		remove()
	}
	t.mu.Unlock()
}

// Reset forgets all tracked connections and removes their close listeners.
// Used on manager disposal.
func (t *Tracker) Reset() {
	t.mu.Lock()
	removes := make([]func(), 0, len(t.known))
	for _, remove := range t.known {
		if remove != nil {
			removes = append(removes, remove)
		}
	}
	t.known = make(map[Connection]func())
	t.mu.Unlock()

	for _, remove := range removes {
		remove()
	}
	metrics.ConnectionsTracked.Set(0)
}

func (t *Tracker) forget(conn Connection) {
	t.mu.Lock()
	delete(t.known, conn)
	count := len(t.known)
	t.mu.Unlock()

	metrics.ConnectionsTracked.Set(float64(count))
}
