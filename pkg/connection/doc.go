/*
Package connection models backend session handles and their one-time
initialization gating.

A Connection exposes the two capabilities the rest of Treeline needs from a
session: a serializable token (embedded into every canonical request) and a
close signal with removable listeners. Session is the concrete implementation;
tests and embedders can provide their own.

Tracker implements the first-use gate: the first query against a connection
must push the connection's cached state (ruleset variable defaults, locale)
to the backend, and must do so exactly once per open connection. The tracker

 1. fires the hook synchronously on the first observation of a connection
    identity,
 2. ignores later calls for the same still-open connection, and
 3. forgets the identity when the close signal fires, so an equivalent or
    reopened connection re-triggers the hook.

Every manager entry point runs through the tracker, not just one; the gate is
cheap after the first call.
*/
package connection
