package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics manages Prometheus metrics for the activation service.
// Each instance owns its own registry so tests can create servers freely
// without duplicate-registration panics.
type Metrics struct {
	logger   *zap.SugaredLogger
	registry *prometheus.Registry
	started  time.Time

	uptime             prometheus.GaugeFunc
	activationRequests *prometheus.CounterVec
	authFailures       *prometheus.CounterVec
	dispatchedTotal    prometheus.Counter
	dispatchDropped    prometheus.Counter
	acceptRetries      prometheus.Counter
}

// NewMetrics creates a metrics manager with its own registry
func NewMetrics(logger *zap.SugaredLogger) *Metrics {
	m := &Metrics{
		logger:   logger,
		registry: prometheus.NewRegistry(),
		started:  time.Now(),
	}

	m.uptime = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "promptsync_uptime_seconds",
		Help: "Time since the application started",
	}, func() float64 {
		return time.Since(m.started).Seconds()
	})

	m.activationRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptsync_activation_requests_total",
			Help: "Total number of activation requests by outcome",
		},
		[]string{"outcome"},
	)

	m.authFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "promptsync_auth_failures_total",
			Help: "Total number of rejected credentials by reason",
		},
		[]string{"reason"},
	)

	m.dispatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promptsync_dispatch_notifications_total",
		Help: "Total number of notifications handed off to the UI context",
	})

	m.dispatchDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promptsync_dispatch_dropped_total",
		Help: "Total number of notifications dropped because the UI context was unavailable",
	})

	m.acceptRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "promptsync_accept_retries_total",
		Help: "Total number of accept-loop errors followed by a backoff retry",
	})

	m.registry.MustRegister(
		m.uptime,
		m.activationRequests,
		m.authFailures,
		m.dispatchedTotal,
		m.dispatchDropped,
		m.acceptRetries,
		collectors.NewGoCollector(),
	)

	return m
}

// Handler returns the HTTP handler for the /metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}

// RecordActivation records the outcome of an activation request
// ("ok", "unauthorized", "forbidden", "error")
func (m *Metrics) RecordActivation(outcome string) {
	if m == nil {
		return
	}
	m.activationRequests.WithLabelValues(outcome).Inc()
}

// RecordAuthFailure records a rejected credential ("missing", "invalid")
func (m *Metrics) RecordAuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

// RecordDispatched records a successful UI hand-off
func (m *Metrics) RecordDispatched() {
	if m == nil {
		return
	}
	m.dispatchedTotal.Inc()
}

// RecordDispatchDropped records a dropped UI notification
func (m *Metrics) RecordDispatchDropped() {
	if m == nil {
		return
	}
	m.dispatchDropped.Inc()
}

// RecordAcceptRetry records an accept-loop error that triggered a backoff
func (m *Metrics) RecordAcceptRetry() {
	if m == nil {
		return
	}
	m.acceptRetries.Inc()
}
