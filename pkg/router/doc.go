/*
Package router fans a single push-notification stream out into typed
hierarchy/content change events.

The presentation backend delivers one UpdateInfo payload per notification: a
map from ruleset id to what changed for it. The UpdateRouter subscribes one
handler to the push channel, resolves each ruleset id through the registry,
and emits:

  - HierarchyChangedEvent when the entry carries a hierarchy value
  - ContentChangedEvent when it carries a content value

Both may fire for the same entry. Entries whose ruleset id resolves to
nothing are dropped silently; an id disappearing from the registry is normal
during ruleset turnover, not an error. Ids are processed in sorted order so
emission is deterministic.

# Listener Registries

Listeners[T] is the typed observer list used for each event kind: Add and
its returned remove function are synchronous, and Emit delivers to listeners
in registration order against a snapshot, so listeners may add or remove
during emission.

# Lifecycle

	Unsubscribed --Start()--> Subscribed --Stop()--> Unsubscribed (terminal)

Start registers exactly one handler (the router itself) under the fixed
source id and event kind; Stop unregisters the same handler reference. A
router constructed with a nil channel never subscribes: in environments
without push delivery no events are ever emitted, and consumers must not
assume they will be.
*/
package router
