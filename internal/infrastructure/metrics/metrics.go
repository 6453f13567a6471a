// Package metrics exposes Prometheus collectors for generation attempts,
// analyses, history size and HTTP requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/doeshing/guruji/internal/domain"
	"github.com/doeshing/guruji/internal/ports"
)

// Metrics holds all Prometheus metrics for guruji.
type Metrics struct {
	registry *prometheus.Registry

	// Provider metrics
	ProviderAttempts *prometheus.CounterVec

	// Analysis metrics
	AnalysesTotal *prometheus.CounterVec

	// History metrics
	HistoryEntries prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates the collectors on a private registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ProviderAttempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guruji_provider_attempts_total",
				Help: "Generation attempts per provider path, model and outcome category",
			},
			[]string{"provider", "model", "result"},
		),
		AnalysesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guruji_analyses_total",
				Help: "Completed analyses by mode and outcome category",
			},
			[]string{"mode", "result"},
		),
		HistoryEntries: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "guruji_history_entries",
				Help: "Number of entries in the history store after the last write",
			},
		),
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "guruji_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "guruji_http_request_duration_seconds",
				Help:    "HTTP API request latency in seconds",
				Buckets: prometheus.ExponentialBuckets(0.005, 2, 14), // 5ms to ~41s
			},
			[]string{"method", "route"},
		),
	}
}

// ObserveAttempt implements ports.MetricsRecorder.
func (m *Metrics) ObserveAttempt(provider, model string, err error) {
	m.ProviderAttempts.WithLabelValues(provider, model, outcome(err)).Inc()
}

// ObserveAnalysis implements ports.MetricsRecorder.
func (m *Metrics) ObserveAnalysis(mode domain.Mode, err error) {
	m.AnalysesTotal.WithLabelValues(string(mode), outcome(err)).Inc()
}

// SetHistorySize implements ports.MetricsRecorder.
func (m *Metrics) SetHistorySize(n int) {
	m.HistoryEntries.Set(float64(n))
}

// RecordHTTPRequest records one served API request.
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Registry exposes the underlying registry for tests and custom exporters.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the exposition format for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func outcome(err error) string {
	if err == nil {
		return "success"
	}
	return string(domain.Classify(err))
}

var _ ports.MetricsRecorder = (*Metrics)(nil)
