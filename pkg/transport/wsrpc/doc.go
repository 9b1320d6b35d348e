// Package wsrpc implements the transport over a websocket connection to
// the presentation service. It speaks a small JSON framing: request frames
// carry a correlation id, an operation name and the canonical request as
// params; responses echo the id with a result or an error; server-initiated
// update notifications carry a source and event instead of an id.
//
// # Architecture
//
//	┌────────────────────────────────────────────────────┐
//	│                      Client                        │
//	│                                                    │
//	│  roundTrip ──► writeFrame ──► websocket            │
//	│      │              ▲                              │
//	│      │          writeMu (one writer at a time)     │
//	│      ▼                                             │
//	│  pending[id] ◄── readLoop ◄── websocket            │
//	│                      │                             │
//	│                      └──► dispatch ──► handlers    │
//	└────────────────────────────────────────────────────┘
//
// A single goroutine owns the read side. Responses resolve pending calls
// by correlation id, so any number of calls can be in flight concurrently.
// Wire error codes follow the gRPC status space; a lost connection fails
// every pending call with Unavailable.
//
// The Client satisfies both the request/response transport and the push
// channel, so one value typically serves both roles:
//
//	c, err := wsrpc.Dial(ctx, "wss://presentation.example.com/rpc", wsrpc.Options{})
//	if err != nil {
//		return err
//	}
//	defer c.Close()
//
//	m, err := manager.NewManager(manager.Options{Transport: c, PushChannel: c})
package wsrpc
