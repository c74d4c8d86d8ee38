// Package metrics defines the Prometheus collectors exported under /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// PollCycles counts completed polling callbacks per poller.
	PollCycles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocketlink_poll_cycles_total",
			Help: "Number of completed polling callback invocations.",
		},
		[]string{"poller"},
	)

	// FeedReadFailures counts per-token feed reads that failed and were
	// tolerated within a batch.
	FeedReadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rocketlink_feed_read_failures_total",
			Help: "Number of individual feed reads that failed.",
		},
	)

	// MonitorReadFailures counts failed monitor snapshot refreshes.
	MonitorReadFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rocketlink_monitor_read_failures_total",
			Help: "Number of failed monitor snapshot reads.",
		},
	)

	// TransactionsSubmitted counts write transactions by method and outcome.
	TransactionsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rocketlink_transactions_total",
			Help: "Number of submitted write transactions by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	// RPCCallDuration observes latency of contract RPC operations.
	RPCCallDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rocketlink_rpc_call_duration_seconds",
			Help:    "Latency of contract RPC calls.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

// MustRegisterMetrics registers all collectors with the default registry and
// panics on duplicate registration.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		PollCycles,
		FeedReadFailures,
		MonitorReadFailures,
		TransactionsSubmitted,
		RPCCallDuration,
	)
}
