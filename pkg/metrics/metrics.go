package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Transport metrics
	RPCCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treeline_rpc_calls_total",
			Help: "Total number of transport calls by operation and status",
		},
		[]string{"operation", "status"},
	)

	RPCCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "treeline_rpc_call_duration_seconds",
			Help:    "Transport call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Paging metrics
	PageRoundTrips = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "treeline_page_round_trips",
			Help:    "Number of transport round trips needed to assemble one page",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21},
		},
	)

	PageAssemblyDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "treeline_page_assembly_duration_seconds",
			Help:    "Time taken to assemble a complete page in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Update routing metrics
	UpdateEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "treeline_update_events_total",
			Help: "Total number of update events emitted by kind",
		},
		[]string{"kind"},
	)

	UpdatesDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "treeline_updates_dropped_total",
			Help: "Total number of update entries dropped for unknown rulesets",
		},
	)

	// State metrics
	RulesetVariablesTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "treeline_ruleset_variables_total",
			Help: "Number of cached ruleset variables per ruleset",
		},
		[]string{"ruleset_id"},
	)

	ConnectionsTracked = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "treeline_connections_tracked",
			Help: "Number of live connections known to the lifecycle tracker",
		},
	)

	RulesetsRegistered = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "treeline_rulesets_registered",
			Help: "Number of rulesets in the registry",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(RPCCallsTotal)
	prometheus.MustRegister(RPCCallDuration)
	prometheus.MustRegister(PageRoundTrips)
	prometheus.MustRegister(PageAssemblyDuration)
	prometheus.MustRegister(UpdateEventsTotal)
	prometheus.MustRegister(UpdatesDroppedTotal)
	prometheus.MustRegister(RulesetVariablesTotal)
	prometheus.MustRegister(ConnectionsTracked)
	prometheus.MustRegister(RulesetsRegistered)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
