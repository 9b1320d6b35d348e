/*
Package transport defines the boundary between Treeline and the presentation
service: the canonical request shape, the request/response operation set, and
the push-notification capability.

The package contains no I/O of its own. The wsrpc subpackage implements both
capabilities over a websocket connection; tests implement them with in-memory
fakes.

# Architecture

	┌──────────────── pkg/manager ─────────────────┐
	│  options builder → *transport.RequestOptions  │
	└──────────┬──────────────────────┬────────────┘
	           │                      │
	┌──────────▼──────────┐  ┌────────▼───────────┐
	│  Transport          │  │  PushChannel        │
	│  13 operations,     │  │  On/Off by handler  │
	│  request/response   │  │  identity, update   │
	│                     │  │  notifications      │
	└──────────┬──────────┘  └────────┬───────────┘
	           │                      │
	┌──────────▼──────────────────────▼────────────┐
	│          pkg/transport/wsrpc (or fakes)       │
	└──────────────────────────────────────────────┘

# Canonical Requests

RequestOptions is the single normalized request struct every operation
accepts. The manager's options builder guarantees:

  - Token carries the serialized connection handle
  - Ruleset holds either a resolved object or an id string ("" for none)
  - RulesetVariables is non-nil, request-supplied variables first, cached
    overlay variables appended after (duplicates by id are kept; the
    consuming end resolves last-wins)
  - Locale/UnitSystem fall back to the manager's active values

Paged operations carry a *types.PagingWindow and return {total, items}; the
assembler advances the window with RequestOptions.WithPaging.

# Errors

Failures are gRPC status errors. IsCanceled recognizes codes.Canceled, which
the hierarchy comparator treats as an empty result; all other codes propagate
to the caller unchanged. An "empty" outcome (no descriptor, no content) is
not an error: operations return nil values for it.
*/
package transport
