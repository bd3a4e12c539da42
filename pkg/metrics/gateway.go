package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GatewayMetrics records outcomes of payment gateway charges.
type GatewayMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewGatewayMetrics registers the charge metrics on the provided registerer.
func NewGatewayMetrics(reg prometheus.Registerer) *GatewayMetrics {
	if reg == nil {
		return &GatewayMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gateway_charge_duration_seconds",
		Help:    "Duration of payment gateway charges in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"category"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_charge_success",
		Help: "Successful gateway charges.",
	}, []string{"category"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_charge_failure",
		Help: "Declined or failed gateway charges.",
	}, []string{"category"})
	reg.MustRegister(duration, success, failure)
	return &GatewayMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the charge category.
func (g *GatewayMetrics) ObserveDuration(category string, duration time.Duration) {
	if g == nil || g.duration == nil {
		return
	}
	g.duration.WithLabelValues(normalizeLabel(category)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the charge category.
func (g *GatewayMetrics) IncSuccess(category string) {
	if g == nil || g.success == nil {
		return
	}
	g.success.WithLabelValues(normalizeLabel(category)).Inc()
}

// IncFailure increments the failure counter for the charge category.
func (g *GatewayMetrics) IncFailure(category string) {
	if g == nil || g.failure == nil {
		return
	}
	g.failure.WithLabelValues(normalizeLabel(category)).Inc()
}

func normalizeLabel(category string) string {
	if category == "" {
		return "unknown"
	}
	return category
}
