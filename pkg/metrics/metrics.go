// Package metrics exposes Prometheus instruments for the gateway flows.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder records upstream calls and state machine outcomes. A nil Recorder
// and a Recorder built with a nil registerer are both no-ops.
type Recorder struct {
	upstream        *prometheus.HistogramVec
	checkoutOutcome *prometheus.CounterVec
	paymentPhase    *prometheus.CounterVec
	sessions        prometheus.Gauge
}

// New registers the gateway metrics on the provided registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return &Recorder{}
	}
	upstream := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_upstream_request_duration_seconds",
		Help:    "Duration of requests to the restaurant backend.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
	checkoutOutcome := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_checkout_outcomes_total",
		Help: "Checkout attempts by terminal state and reason.",
	}, []string{"state", "reason"})
	paymentPhase := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_payment_result_total",
		Help: "Payment result page resolutions by phase and reason.",
	}, []string{"phase", "reason"})
	sessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_sessions_active",
		Help: "Sessions currently held in memory.",
	})
	reg.MustRegister(upstream, checkoutOutcome, paymentPhase, sessions)
	return &Recorder{
		upstream:        upstream,
		checkoutOutcome: checkoutOutcome,
		paymentPhase:    paymentPhase,
		sessions:        sessions,
	}
}

// ObserveUpstream records one backend round trip.
func (r *Recorder) ObserveUpstream(method, route, status string, took time.Duration) {
	if r == nil || r.upstream == nil {
		return
	}
	r.upstream.WithLabelValues(method, normalizeLabel(route), status).Observe(took.Seconds())
}

// IncCheckout counts one checkout reaching a terminal state.
func (r *Recorder) IncCheckout(state, reason string) {
	if r == nil || r.checkoutOutcome == nil {
		return
	}
	r.checkoutOutcome.WithLabelValues(normalizeLabel(state), normalizeLabel(reason)).Inc()
}

// IncPaymentResult counts one payment-result resolution.
func (r *Recorder) IncPaymentResult(phase, reason string) {
	if r == nil || r.paymentPhase == nil {
		return
	}
	r.paymentPhase.WithLabelValues(normalizeLabel(phase), normalizeLabel(reason)).Inc()
}

// SetSessions reports how many sessions are live.
func (r *Recorder) SetSessions(n int) {
	if r == nil || r.sessions == nil {
		return
	}
	r.sessions.Set(float64(n))
}

func normalizeLabel(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "none"
	}
	return value
}
