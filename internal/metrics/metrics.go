// Package metrics exposes Prometheus instrumentation for report ingestion
// and aggregation queries.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ossvat"

// Row outcomes recorded by ObserveIngest besides the skip reasons.
const (
	OutcomeAccepted = "accepted"
	OutcomeInserted = "inserted"
)

// Metrics groups the application collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	ingestRows     *prometheus.CounterVec
	ingestRuns     *prometheus.CounterVec
	ingestDuration prometheus.Histogram
	queryDuration  *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg and serves them from g.
func NewWithRegistry(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		gatherer: g,
		ingestRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Report rows processed, by outcome.",
		}, []string{"outcome"}),
		ingestRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "runs_total",
			Help:      "Report ingestion runs, by format and result.",
		}, []string{"format", "result"}),
		ingestDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "duration_seconds",
			Help:      "Wall time of a report ingestion run.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Latency of transaction queries, by operation.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by route and status code.",
		}, []string{"route", "status"}),
	}
}

// ObserveIngest records one ingestion run. skipped maps a skip reason to
// its row count. The Observe methods are no-ops on a nil *Metrics.
func (m *Metrics) ObserveIngest(format string, accepted int, inserted int64, skipped map[string]int, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.ingestRuns.WithLabelValues(format, result).Inc()
	m.ingestDuration.Observe(elapsed.Seconds())
	if err != nil {
		return
	}
	m.ingestRows.WithLabelValues(OutcomeAccepted).Add(float64(accepted))
	m.ingestRows.WithLabelValues(OutcomeInserted).Add(float64(inserted))
	for reason, n := range skipped {
		m.ingestRows.WithLabelValues(reason).Add(float64(n))
	}
}

// ObserveQuery records the latency of a read operation.
func (m *Metrics) ObserveQuery(operation string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.queryDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(route, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, status).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
