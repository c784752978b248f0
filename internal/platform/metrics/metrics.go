package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration pipeline.
type Metrics struct {
	// Registration outcomes by terminal status ("succeeded", "rejected", "failed")
	RegistrationOutcome *prometheus.CounterVec

	// Carrier submission attempts by endpoint position and result
	SubmitAttempts *prometheus.CounterVec

	// Token refreshes against the carrier auth endpoint by result
	TokenRefreshes *prometheus.CounterVec

	// Cache hits where a still-valid token was reused
	TokenCacheHits prometheus.Counter

	// End-to-end request latency
	RequestLatency prometheus.Histogram
}

// New creates and registers all gateway metrics.
func New() *Metrics {
	return &Metrics{
		RegistrationOutcome: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pavrica_registration_outcomes_total",
			Help: "Total registration requests by terminal status",
		}, []string{"status"}),

		SubmitAttempts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pavrica_submit_attempts_total",
			Help: "Carrier submission attempts by endpoint position and result",
		}, []string{"endpoint", "result"}),

		TokenRefreshes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "pavrica_token_refreshes_total",
			Help: "Token refreshes against the carrier auth endpoint by result",
		}, []string{"result"}),

		TokenCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "pavrica_token_cache_hits_total",
			Help: "Requests served with a still-valid cached bearer token",
		}),

		RequestLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "pavrica_registration_duration_seconds",
			Help:    "Duration of full registration handling including carrier calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
	}
}

// IncrementOutcome records a terminal registration status.
func (m *Metrics) IncrementOutcome(status string) {
	if m != nil {
		m.RegistrationOutcome.WithLabelValues(status).Inc()
	}
}

// IncrementSubmitAttempt records one carrier submission attempt.
func (m *Metrics) IncrementSubmitAttempt(endpoint, result string) {
	if m != nil {
		m.SubmitAttempts.WithLabelValues(endpoint, result).Inc()
	}
}

// IncrementTokenRefresh records an auth call against the carrier.
func (m *Metrics) IncrementTokenRefresh(result string) {
	if m != nil {
		m.TokenRefreshes.WithLabelValues(result).Inc()
	}
}

// IncrementTokenCacheHit records reuse of a valid cached token.
func (m *Metrics) IncrementTokenCacheHit() {
	if m != nil {
		m.TokenCacheHits.Inc()
	}
}

// ObserveRequestLatency records the total handling duration.
func (m *Metrics) ObserveRequestLatency(d time.Duration) {
	if m != nil {
		m.RequestLatency.Observe(d.Seconds())
	}
}
