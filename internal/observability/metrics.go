// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Event ingestion metrics
	EventsReceived *prometheus.CounterVec
	PollErrors     prometheus.Counter
	WSReconnects   prometheus.Counter

	// Trigger metrics
	Decisions *prometheus.CounterVec

	// Launch metrics
	LaunchesTotal  *prometheus.CounterVec
	LaunchDuration prometheus.Histogram

	// Wallet pool metrics
	PoolSize      prometheus.Gauge
	PoolExhausted prometheus.Counter
	WalletsFunded prometheus.Counter

	// Latency metrics
	RPCCallLatency *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "launch_trigger"
	}

	return &Metrics{
		EventsReceived: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "events_received_total",
			Help:      "Total number of trade events received by source",
		}, []string{"source"}),
		PollErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "poll_errors_total",
			Help:      "Total number of failed polling cycles",
		}),
		WSReconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "ws_reconnects_total",
			Help:      "Total number of WebSocket reconnections",
		}),

		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "trigger",
			Name:      "decisions_total",
			Help:      "Total number of trigger decisions by outcome",
		}, []string{"outcome"}),

		LaunchesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "launcher",
			Name:      "launches_total",
			Help:      "Total number of launch attempts by status",
		}, []string{"status"}),
		LaunchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "launcher",
			Name:      "launch_duration_seconds",
			Help:      "End-to-end launch duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60},
		}),

		PoolSize: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "pool_size",
			Help:      "Current number of wallets in the pool",
		}),
		PoolExhausted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "pool_exhausted_total",
			Help:      "Total number of launches that failed with an exhausted pool",
		}),
		WalletsFunded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "wallet",
			Name:      "wallets_funded_total",
			Help:      "Total number of wallets provisioned from the master wallet",
		}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "solana",
			Name:      "rpc_call_latency_seconds",
			Help:      "Solana RPC call latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordEventReceived increments the events received counter.
func RecordEventReceived(source string) {
	DefaultMetrics.EventsReceived.WithLabelValues(source).Inc()
}

// RecordDecision increments the trigger decision counter.
func RecordDecision(outcome string) {
	DefaultMetrics.Decisions.WithLabelValues(outcome).Inc()
}

// RecordLaunch records one launch attempt and its duration.
func RecordLaunch(success bool, durationSeconds float64) {
	status := "failed"
	if success {
		status = "success"
	}
	DefaultMetrics.LaunchesTotal.WithLabelValues(status).Inc()
	DefaultMetrics.LaunchDuration.Observe(durationSeconds)
}

// RecordPoolExhausted increments the pool exhaustion counter.
func RecordPoolExhausted() {
	DefaultMetrics.PoolExhausted.Inc()
}

// RecordWalletFunded increments the wallets funded counter.
func RecordWalletFunded() {
	DefaultMetrics.WalletsFunded.Inc()
}

// RecordWSReconnect increments the WebSocket reconnect counter.
func RecordWSReconnect() {
	DefaultMetrics.WSReconnects.Inc()
}

// RecordPollError increments the failed poll counter.
func RecordPollError() {
	DefaultMetrics.PollErrors.Inc()
}

// UpdatePoolSize updates the wallet pool size gauge.
func UpdatePoolSize(n int) {
	DefaultMetrics.PoolSize.Set(float64(n))
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}
