package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors the site exports on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	Requests           *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
	LiveSessions       prometheus.Gauge
	LiveEvents         *prometheus.CounterVec
	Navigations        *prometheus.CounterVec
	ContactSubmissions *prometheus.CounterVec
	RateLimited        prometheus.Counter
}

// NewMetrics registers every collector on a fresh registry, so tests can build
// as many as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snix_http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		RequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "snix_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		LiveSessions: f.NewGauge(prometheus.GaugeOpts{
			Name: "snix_live_sessions",
			Help: "Open live websocket sessions.",
		}),
		LiveEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snix_live_events_total",
			Help: "Client events received over live sessions, by type.",
		}, []string{"type"}),
		Navigations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snix_page_navigations_total",
			Help: "Page switches by target page.",
		}, []string{"page"}),
		ContactSubmissions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "snix_contact_submissions_total",
			Help: "Contact form submissions by channel and outcome.",
		}, []string{"via", "outcome"}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Name: "snix_rate_limited_total",
			Help: "Requests rejected by the rate limiter.",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
