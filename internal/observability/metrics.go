// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the monitor.
type Metrics struct {
	// Ingestion metrics
	NotificationsReceived prometheus.Counter
	EventsDecoded         prometheus.Counter
	DecodeErrors          prometheus.Counter

	// Enrichment metrics
	MetadataFetches       prometheus.Counter
	MetadataFetchFailures prometheus.Counter
	MetadataFetchDuration prometheus.Histogram

	// Sink metrics
	RecordsWritten  prometheus.Counter
	SinkWriteErrors prometheus.Counter

	// Connection metrics
	Reconnects       prometheus.Counter
	RetryExhaustions prometheus.Counter
	ConnectionUp     prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics registered
// on the default registry. Call it once per process.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pumpfun_monitor"
	}

	return &Metrics{
		NotificationsReceived: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "notifications_received_total",
			Help:      "Total number of log notifications received",
		}),
		EventsDecoded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "events_decoded_total",
			Help:      "Total number of token creation events decoded",
		}),
		DecodeErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingestion",
			Name:      "decode_errors_total",
			Help:      "Total number of payloads that failed to decode",
		}),
		MetadataFetches: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "metadata_fetches_total",
			Help:      "Total number of successful metadata fetches",
		}),
		MetadataFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "metadata_fetch_failures_total",
			Help:      "Total number of metadata fetches degraded to NA",
		}),
		MetadataFetchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "enrichment",
			Name:      "metadata_fetch_duration_seconds",
			Help:      "Metadata fetch latency in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		RecordsWritten: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "records_written_total",
			Help:      "Total number of records appended to the sink",
		}),
		SinkWriteErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sink",
			Name:      "write_errors_total",
			Help:      "Total number of records dropped due to sink errors",
		}),
		Reconnects: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "reconnects_total",
			Help:      "Total number of reconnect attempts",
		}),
		RetryExhaustions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "retry_exhaustions_total",
			Help:      "Total number of times the retry ceiling was reached",
		}),
		ConnectionUp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "connection_up",
			Help:      "1 while a subscription session is receiving, else 0",
		}),
	}
}

// Handler returns an HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
