// Package metrics provides Prometheus metrics for table comparisons.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds metrics configuration.
type Config struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address" default:":9090"` // Address for metrics HTTP server
}

// Metrics holds the comparison metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	Rows          *prometheus.CounterVec // by outcome
	RowsRead      *prometheus.CounterVec // by side
	Tables        *prometheus.CounterVec // by status
	TableDuration prometheus.Histogram
	InFlight      prometheus.Gauge
}

// New registers the metrics on a dedicated registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "db_compare"
	}
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		Rows: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_total",
				Help:      "Rows classified, by outcome (matched, changed, missing, extra)",
			},
			[]string{"outcome"},
		),
		RowsRead: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rows_read_total",
				Help:      "Rows read from each side",
			},
			[]string{"side"},
		),
		Tables: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tables_total",
				Help:      "Tables compared, by status (ok, failed)",
			},
			[]string{"status"},
		),
		TableDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "table_duration_seconds",
				Help:      "Time to compare one table",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 16), // 10ms to ~5min
			},
		),
		InFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tables_in_flight",
				Help:      "Tables currently being compared",
			},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddRows adds n rows to the outcome counter.
func (m *Metrics) AddRows(outcome string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.Rows.WithLabelValues(outcome).Add(float64(n))
}

// AddRowsRead adds n rows to the side counter.
func (m *Metrics) AddRowsRead(side string, n int64) {
	if m == nil || n == 0 {
		return
	}
	m.RowsRead.WithLabelValues(side).Add(float64(n))
}

// TableStarted marks a table comparison in flight.
func (m *Metrics) TableStarted() {
	if m == nil {
		return
	}
	m.InFlight.Inc()
}

// TableFinished records the outcome and duration of one table comparison.
func (m *Metrics) TableFinished(ok bool, seconds float64) {
	if m == nil {
		return
	}
	m.InFlight.Dec()
	status := "ok"
	if !ok {
		status = "failed"
	}
	m.Tables.WithLabelValues(status).Inc()
	m.TableDuration.Observe(seconds)
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// StartServer starts an HTTP server for Prometheus metrics scraping.
// Blocks until the server exits.
func (m *Metrics) StartServer(address string) error {
	return http.ListenAndServe(address, m.Handler())
}
