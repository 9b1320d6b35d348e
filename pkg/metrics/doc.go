/*
Package metrics provides Prometheus metrics for Treeline's client operations.

The metrics package defines the collectors every other package reports into:
transport call counts and latencies, page-assembly round trips, update-event
fanout counts, and gauges for cached client state (ruleset variables, tracked
connections, registered rulesets). All collectors are registered with the
default Prometheus registry at package init.

# Metrics

Transport:
  - treeline_rpc_calls_total{operation,status}
  - treeline_rpc_call_duration_seconds{operation}

Paging:
  - treeline_page_round_trips
  - treeline_page_assembly_duration_seconds

Update routing:
  - treeline_update_events_total{kind}
  - treeline_updates_dropped_total

State:
  - treeline_ruleset_variables_total{ruleset_id}
  - treeline_connections_tracked
  - treeline_rulesets_registered

# Usage

Recording a timed operation:

	timer := metrics.NewTimer()
	resp, err := transport.GetPagedNodes(ctx, req)
	timer.ObserveDurationVec(metrics.RPCCallDuration, "GetPagedNodes")

Exposing the endpoint:

	http.Handle("/metrics", metrics.Handler())
	http.ListenAndServe(":9090", nil)
*/
package metrics
