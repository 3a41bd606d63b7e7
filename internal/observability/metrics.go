// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Transaction metrics, labelled by operation (create, mint, burn, ...)
	TransactionsBuilt     *prometheus.CounterVec
	InstructionsBuilt     *prometheus.CounterVec
	TransactionsSubmitted *prometheus.CounterVec
	TransactionsConfirmed *prometheus.CounterVec
	TransactionsFailed    *prometheus.CounterVec
	TokensCreated         *prometheus.CounterVec
	FeesCollected         *prometheus.CounterVec

	// Upload metrics
	MetadataUploads *prometheus.CounterVec

	// Latency metrics
	RPCCallLatency      *prometheus.HistogramVec
	ConfirmationLatency *prometheus.HistogramVec
	UploadLatency       prometheus.Histogram

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryErrors   *prometheus.CounterVec

	// Health metrics
	LastSuccessfulSubmission prometheus.Gauge
	UptimeSeconds            prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "solana_token_forge"
	}

	return &Metrics{
		TransactionsBuilt: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "built_total",
			Help:      "Total number of transactions assembled",
		}, []string{"operation"}),
		InstructionsBuilt: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "instructions_built_total",
			Help:      "Total number of instructions assembled by kind",
		}, []string{"kind"}),
		TransactionsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "submitted_total",
			Help:      "Total number of transactions handed to the ledger",
		}, []string{"operation"}),
		TransactionsConfirmed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "confirmed_total",
			Help:      "Total number of transactions confirmed",
		}, []string{"operation"}),
		TransactionsFailed: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "failed_total",
			Help:      "Total number of failed requests by error kind",
		}, []string{"operation", "kind"}),
		TokensCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "created_total",
			Help:      "Total number of tokens created by plan",
		}, []string{"plan"}),
		FeesCollected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tokens",
			Name:      "fees_lamports_total",
			Help:      "Service fees transferred, in lamports",
		}, []string{"plan"}),

		MetadataUploads: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "requests_total",
			Help:      "Total number of metadata uploads by status",
		}, []string{"status"}),

		RPCCallLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "rpc",
			Name:      "call_latency_seconds",
			Help:      "RPC call latency in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method"}),
		ConfirmationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tx",
			Name:      "confirmation_latency_seconds",
			Help:      "Time from submission to confirmation in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 90},
		}, []string{"operation"}),
		UploadLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "upload",
			Name:      "latency_seconds",
			Help:      "Metadata upload latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),

		DBQueryDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_duration_seconds",
			Help:      "Database query duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"database", "operation"}),
		DBQueryErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "database",
			Name:      "query_errors_total",
			Help:      "Total number of database query errors",
		}, []string{"database", "operation"}),

		LastSuccessfulSubmission: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_submission_timestamp",
			Help:      "Unix timestamp of last confirmed transaction",
		}),
		UptimeSeconds: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "uptime_seconds_total",
			Help:      "Total uptime in seconds",
		}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordTransactionBuilt counts an assembled transaction and its instructions.
func RecordTransactionBuilt(operation string, instructionKinds []string) {
	DefaultMetrics.TransactionsBuilt.WithLabelValues(operation).Inc()
	for _, k := range instructionKinds {
		DefaultMetrics.InstructionsBuilt.WithLabelValues(k).Inc()
	}
}

// RecordTransactionSubmitted counts a transaction handed to the ledger.
func RecordTransactionSubmitted(operation string) {
	DefaultMetrics.TransactionsSubmitted.WithLabelValues(operation).Inc()
}

// RecordTransactionConfirmed records a confirmation and its latency.
func RecordTransactionConfirmed(operation string, seconds float64) {
	DefaultMetrics.TransactionsConfirmed.WithLabelValues(operation).Inc()
	DefaultMetrics.ConfirmationLatency.WithLabelValues(operation).Observe(seconds)
	DefaultMetrics.LastSuccessfulSubmission.Set(float64(time.Now().Unix()))
}

// RecordTransactionFailed records a failed request by error kind.
func RecordTransactionFailed(operation, kind string) {
	DefaultMetrics.TransactionsFailed.WithLabelValues(operation, kind).Inc()
}

// RecordTokenCreated records a confirmed token creation.
func RecordTokenCreated(plan string, feeLamports uint64) {
	DefaultMetrics.TokensCreated.WithLabelValues(plan).Inc()
	DefaultMetrics.FeesCollected.WithLabelValues(plan).Add(float64(feeLamports))
}

// RecordUpload records a metadata upload attempt.
func RecordUpload(seconds float64, err error) {
	DefaultMetrics.UploadLatency.Observe(seconds)
	status := "ok"
	if err != nil {
		status = "error"
	}
	DefaultMetrics.MetadataUploads.WithLabelValues(status).Inc()
}

// RecordRPCLatency records RPC call latency.
func RecordRPCLatency(method string, seconds float64) {
	DefaultMetrics.RPCCallLatency.WithLabelValues(method).Observe(seconds)
}

// RecordDBQuery records database query metrics.
func RecordDBQuery(database, operation string, seconds float64, err error) {
	DefaultMetrics.DBQueryDuration.WithLabelValues(database, operation).Observe(seconds)
	if err != nil {
		DefaultMetrics.DBQueryErrors.WithLabelValues(database, operation).Inc()
	}
}

// RecordUptime adds elapsed running time.
func RecordUptime(elapsed time.Duration) {
	DefaultMetrics.UptimeSeconds.Add(elapsed.Seconds())
}
