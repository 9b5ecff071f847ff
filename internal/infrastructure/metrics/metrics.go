package metrics

import (
	"time"

	"ozpay/internal/usecase/interfaces"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "ozpay"

// Metrics holds the Prometheus collectors of the service.
type Metrics struct {
	paymentsTotal      *prometheus.CounterVec
	paymentDuration    *prometheus.HistogramVec
	gatewayCalls       *prometheus.CounterVec
	gatewayDuration    *prometheus.HistogramVec
	credentialFailures *prometheus.CounterVec
	duplicateRequests  *prometheus.CounterVec
	breakerState       *prometheus.GaugeVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

var _ interfaces.IPaymentMetrics = (*Metrics)(nil)

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		paymentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payments processed, by method and final status.",
		}, []string{"method", "status"}),
		paymentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "payment_duration_seconds",
			Help:      "End to end duration of payment processing in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
		gatewayCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "gateway_calls_total",
			Help:      "Gateway submissions, by gateway and outcome.",
		}, []string{"gateway", "outcome"}),
		gatewayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_call_duration_seconds",
			Help:      "Duration of a single gateway submission in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"gateway"}),
		credentialFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "credential_failures_total",
			Help:      "Credential resolution failures, by reason.",
		}, []string{"reason"}),
		duplicateRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idempotent_requests_total",
			Help:      "Requests that hit an existing idempotency reservation, by outcome.",
		}, []string{"outcome"}),
		breakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "gateway_breaker_state",
			Help:      "Circuit breaker state per gateway (1 for the current state).",
		}, []string{"gateway", "state"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	if reg != nil {
		reg.MustRegister(
			m.paymentsTotal, m.paymentDuration,
			m.gatewayCalls, m.gatewayDuration,
			m.credentialFailures, m.duplicateRequests, m.breakerState,
			m.httpRequests, m.httpDuration,
		)
	}
	return m
}

func (m *Metrics) PaymentProcessed(method, status string, d time.Duration) {
	m.paymentsTotal.WithLabelValues(method, status).Inc()
	m.paymentDuration.WithLabelValues(method).Observe(d.Seconds())
}

func (m *Metrics) GatewayCall(gateway, outcome string, d time.Duration) {
	m.gatewayCalls.WithLabelValues(gateway, outcome).Inc()
	m.gatewayDuration.WithLabelValues(gateway).Observe(d.Seconds())
}

func (m *Metrics) CredentialFailure(reason string) {
	m.credentialFailures.WithLabelValues(reason).Inc()
}

func (m *Metrics) DuplicateRequest(outcome string) {
	m.duplicateRequests.WithLabelValues(outcome).Inc()
}

var breakerStates = []string{"closed", "half-open", "open"}

// BreakerStateChanged matches the breaker callback signature.
func (m *Metrics) BreakerStateChanged(gateway, state string) {
	for _, s := range breakerStates {
		v := 0.0
		if s == state {
			v = 1
		}
		m.breakerState.WithLabelValues(gateway, s).Set(v)
	}
}

func (m *Metrics) HTTPRequest(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, statusLabel(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func statusLabel(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
