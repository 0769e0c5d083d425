// Package metrics exposes prometheus instrumentation for the auth flows.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	ResultSuccess     = "success"
	ResultDuplicate   = "duplicate"
	ResultInvalid     = "invalid_credentials"
	ResultRateLimited = "rate_limited"
	ResultError       = "error"
)

// Metrics holds the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registrations *prometheus.CounterVec
	logins        *prometheus.CounterVec
	logouts       prometheus.Counter
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	registerer    prometheus.Registerer
}

// New registers all collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registerer: reg,
		registrations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chatauth_registrations_total",
			Help: "User registrations by result",
		}, []string{"result"}),
		logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chatauth_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		logouts: f.NewCounter(prometheus.CounterOpts{
			Name: "chatauth_logouts_total",
			Help: "Logout requests",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "chatauth_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "chatauth_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// TrackActiveSessions exports count as the chatauth_active_sessions gauge
func (m *Metrics) TrackActiveSessions(count func() int) {
	if m == nil {
		return
	}
	promauto.With(m.registerer).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "chatauth_active_sessions",
		Help: "Sessions currently held in the store, including expired ones awaiting purge",
	}, func() float64 { return float64(count()) })
}

func (m *Metrics) ObserveRegistration(result string) {
	if m == nil {
		return
	}
	m.registrations.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.logins.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveLogout() {
	if m == nil {
		return
	}
	m.logouts.Inc()
}

func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}
