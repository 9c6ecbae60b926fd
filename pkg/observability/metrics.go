package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Role grant metrics
	GrantsTotal   *prometheus.CounterVec
	GrantDuration *prometheus.HistogramVec

	// Navigation metrics
	NavigationsTotal   *prometheus.CounterVec
	RedirectsTotal     *prometheus.CounterVec
	TokenRefreshTotal  *prometheus.CounterVec

	// Reference cache metrics
	ReferenceLoadsTotal *prometheus.CounterVec
	ReferenceSkipsTotal *prometheus.CounterVec
	ReferenceItems      *prometheus.GaugeVec

	// Recent items
	RecentItemsTotal prometheus.Counter
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		GrantsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_role_grants_total",
				Help: "Total number of role grant requests by scope and outcome",
			},
			[]string{"scope", "outcome"},
		),
		GrantDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_role_grant_duration_seconds",
				Help:    "Role grant request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"scope"},
		),
		NavigationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_navigations_total",
				Help: "Total number of navigation decisions by action",
			},
			[]string{"action"},
		),
		RedirectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_navigation_redirects_total",
				Help: "Total number of navigation redirects by reason",
			},
			[]string{"reason"},
		),
		TokenRefreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_token_refresh_total",
				Help: "Total number of silent token refresh attempts by outcome",
			},
			[]string{"outcome"},
		),
		ReferenceLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_reference_loads_total",
				Help: "Total number of reference fetches by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		ReferenceSkipsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_reference_load_skips_total",
				Help: "Total number of reference loads short-circuited by TTL or lazy-load",
			},
			[]string{"kind", "reason"},
		),
		ReferenceItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "console_reference_items",
				Help: "Number of cached reference items by kind",
			},
			[]string{"kind"},
		),
		RecentItemsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "console_recent_items_total",
				Help: "Total number of recent items recorded",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GrantsTotal,
		m.GrantDuration,
		m.NavigationsTotal,
		m.RedirectsTotal,
		m.TokenRefreshTotal,
		m.ReferenceLoadsTotal,
		m.ReferenceSkipsTotal,
		m.ReferenceItems,
		m.RecentItemsTotal,
	)

	return m
}

// Handler returns an HTTP handler for the metrics endpoint
func (m *Metrics) Handler(registry *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records metrics for a completed HTTP request
func (m *Metrics) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// ObserveGrant records metrics for a role grant attempt
func (m *Metrics) ObserveGrant(scope string, err error, duration time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	m.GrantsTotal.WithLabelValues(scope, outcome).Inc()
	m.GrantDuration.WithLabelValues(scope).Observe(duration.Seconds())
}
