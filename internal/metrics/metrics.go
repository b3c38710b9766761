package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Dataset metrics
	DatasetRows     prometheus.Gauge
	DatasetLoads    *prometheus.CounterVec
	LoadDuration    prometheus.Histogram
	RowsQuarantined *prometheus.CounterVec

	// Query metrics
	Requests       *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec

	// Result cache metrics
	ResultCacheHits   prometheus.Counter
	ResultCacheMisses prometheus.Counter

	// Rate limiting metrics
	RateLimitHits *prometheus.CounterVec
}

// DefaultMetrics is the global metrics instance.
var DefaultMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		DatasetRows: promauto.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "dataset_rows",
				Help:      "Number of event rows in the loaded dataset",
			},
		),
		DatasetLoads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dataset_loads_total",
				Help:      "Dataset loads by source kind",
			},
			[]string{"source"},
		),
		LoadDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "dataset_load_duration_seconds",
				Help:      "Dataset load duration",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
		),
		RowsQuarantined: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_quarantined_total",
				Help:      "Malformed rows skipped during load",
			},
			[]string{"source"},
		),
		Requests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "API requests by endpoint and status",
			},
			[]string{"endpoint", "status"},
		),
		RequestLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_latency_seconds",
				Help:      "API request latency",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"endpoint"},
		),
		ResultCacheHits: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "result_cache_hits_total",
				Help:      "Dashboard result cache hits",
			},
		),
		ResultCacheMisses: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "result_cache_misses_total",
				Help:      "Dashboard result cache misses",
			},
		),
		RateLimitHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limit_hits_total",
				Help:      "Rate limit rejections",
			},
			[]string{"endpoint"},
		),
	}

	DefaultMetrics = m
	return m
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordLoad records a completed dataset load.
func (m *Metrics) RecordLoad(source string, rows int, duration time.Duration) {
	m.DatasetLoads.WithLabelValues(source).Inc()
	m.DatasetRows.Set(float64(rows))
	m.LoadDuration.Observe(duration.Seconds())
}

// RecordQuarantinedRow records a malformed row skipped during load.
func (m *Metrics) RecordQuarantinedRow(source string) {
	m.RowsQuarantined.WithLabelValues(source).Inc()
}

// RecordRequest records an API request.
func (m *Metrics) RecordRequest(endpoint string, status int, latency time.Duration) {
	m.Requests.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
	m.RequestLatency.WithLabelValues(endpoint).Observe(latency.Seconds())
}

// RecordResultCache records a dashboard cache lookup outcome.
func (m *Metrics) RecordResultCache(hit bool) {
	if hit {
		m.ResultCacheHits.Inc()
	} else {
		m.ResultCacheMisses.Inc()
	}
}

// RecordRateLimitHit records a rate limit hit.
func (m *Metrics) RecordRateLimitHit(endpoint string) {
	m.RateLimitHits.WithLabelValues(endpoint).Inc()
}
