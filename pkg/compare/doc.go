/*
Package compare computes hierarchy differences between two presentation
states.

The comparator implements two local policies around the transport's
comparison operation:

Short-circuit: when the previous and current state descriptors are
equivalent (same ruleset reference/id, same effective variable set, or both
sides entirely empty) nothing can have changed, and the comparator returns an
empty result without a round trip.

Cancellation swallowing: the backend cancels an in-flight comparison when a
newer one supersedes it. That cancellation is not an error from the caller's
point of view; it surfaces as an empty result. Any other failure propagates
unchanged.

Variable sets are compared by effective value: the last entry for a given id
wins, matching how the backend resolves duplicated variables.
*/
package compare
