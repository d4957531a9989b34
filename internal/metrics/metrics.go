// Package metrics exposes the daemon's operational counters via
// Prometheus, per SPEC_FULL.md §4.10. This is additive observability,
// not in spec.md's scope, and disabled unless --metrics-addr is set;
// every method tolerates a nil *Metrics so callers don't need to
// branch on whether metrics are enabled.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for crbl_log_requests_total.
const (
	OutcomeServed     = "served"
	OutcomeRedirected = "redirected"
	OutcomeNotFound   = "not_found"
	OutcomeBadRequest = "bad_request"
)

// Metrics holds every exported collector. A nil *Metrics is valid and
// every method on it is a no-op.
type Metrics struct {
	registry            *prometheus.Registry
	peerTableSize       prometheus.Gauge
	fileIndexSize       prometheus.Gauge
	indexerCycleSeconds prometheus.Histogram
	peersDroppedTotal   prometheus.Counter
	logRequestsTotal    *prometheus.CounterVec
}

// New builds and registers a fresh collector set.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		peerTableSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crbl_peer_table_size",
			Help: "Current number of peers known to this node.",
		}),
		fileIndexSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crbl_file_index_size",
			Help: "Current number of filenames routable via the file index.",
		}),
		indexerCycleSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "crbl_indexer_cycle_seconds",
			Help:    "Duration of each indexer polling cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		peersDroppedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crbl_indexer_peers_dropped_total",
			Help: "Total peers dropped from an indexing cycle as unreachable.",
		}),
		logRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crbl_log_requests_total",
			Help: "Total /log requests by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.peerTableSize, m.fileIndexSize, m.indexerCycleSeconds, m.peersDroppedTotal, m.logRequestsTotal)
	return m
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveIndexerCycle implements indexer.CycleObserver.
func (m *Metrics) ObserveIndexerCycle(duration time.Duration, peerCount, fileCount, droppedCount int) {
	if m == nil {
		return
	}
	m.indexerCycleSeconds.Observe(duration.Seconds())
	m.peerTableSize.Set(float64(peerCount))
	m.fileIndexSize.Set(float64(fileCount))
	m.peersDroppedTotal.Add(float64(droppedCount))
}

// ObserveLogRequest records one /log request's outcome.
func (m *Metrics) ObserveLogRequest(outcome string) {
	if m == nil {
		return
	}
	m.logRequestsTotal.WithLabelValues(outcome).Inc()
}
