/*
Package variables caches per-ruleset variable values merged into outgoing
requests.

An Overlay stores RulesetVariable values keyed by (rulesetId, variableId).
Writes are last-wins in place: overwriting a variable keeps its original
position in the sequence and only updates the value. Retrieval returns the
flat ordered sequence the wire format requires.

The overlay never deduplicates against variables the caller supplies on a
request; the manager's options builder places request-supplied variables
first and appends the overlay's values after them, and the consuming end
resolves duplicates as last-value-wins.

Access is mutex-guarded so the overlay can be shared across goroutines.
*/
package variables
