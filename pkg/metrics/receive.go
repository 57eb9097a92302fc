package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jasperlim/tracelink-backend/pkg/enums"
)

// ReceiveMetrics records outcomes and latency for warehouse receiving.
type ReceiveMetrics struct {
	outcomes *prometheus.CounterVec
	duration *prometheus.HistogramVec
	units    *prometheus.CounterVec
}

// NewReceiveMetrics registers the warehouse receiving metrics on the provided registerer.
func NewReceiveMetrics(reg prometheus.Registerer) *ReceiveMetrics {
	if reg == nil {
		return &ReceiveMetrics{}
	}
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_receive_outcomes_total",
		Help: "Master case receive attempts by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "warehouse_receive_duration_seconds",
		Help:    "Duration of a single master case receive in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	units := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "warehouse_receive_units_total",
		Help: "Unique product units accepted into the warehouse.",
	}, []string{"warehouse_org"})
	reg.MustRegister(outcomes, duration, units)
	return &ReceiveMetrics{
		outcomes: outcomes,
		duration: duration,
		units:    units,
	}
}

// ObserveReceive records one receive attempt with its outcome and latency.
func (r *ReceiveMetrics) ObserveReceive(outcome enums.ReceiveOutcome, duration time.Duration) {
	if r == nil || r.outcomes == nil {
		return
	}
	label := outcomeLabel(outcome)
	r.outcomes.WithLabelValues(label).Inc()
	r.duration.WithLabelValues(label).Observe(duration.Seconds())
}

// AddUnits accumulates the accepted unit count for a warehouse org.
func (r *ReceiveMetrics) AddUnits(warehouseOrg string, count int) {
	if r == nil || r.units == nil || count <= 0 {
		return
	}
	if warehouseOrg == "" {
		warehouseOrg = "unknown"
	}
	r.units.WithLabelValues(warehouseOrg).Add(float64(count))
}

func outcomeLabel(outcome enums.ReceiveOutcome) string {
	if outcome == "" {
		return "unknown"
	}
	return string(outcome)
}
