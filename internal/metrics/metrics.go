package metrics

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	invocationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "screenrun_invocation_duration_seconds",
			Help:    "Predictor invocation duration in seconds by target",
			Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~1000s
		},
		[]string{"target", "status"},
	)

	pairOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "screenrun_pairs_total",
			Help: "Total number of (target, trial) pairs processed by outcome",
		},
		[]string{"outcome"}, // "ran", "skipped-exists", "skipped-filter", "failed"
	)

	enumeratedPairs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "screenrun_enumerated_pairs",
			Help: "Number of (target, trial) pairs in the current enumeration",
		},
	)
)

// Collector provides convenience methods for recording metrics
type Collector struct {
	logger *slog.Logger
}

// NewCollector creates a new metrics collector
func NewCollector(logger *slog.Logger) *Collector {
	return &Collector{
		logger: logger,
	}
}

// RecordInvocation records one predictor invocation's duration
func (c *Collector) RecordInvocation(target string, duration time.Duration, success bool) {
	status := "success"
	if !success {
		status = "error"
	}
	invocationDuration.WithLabelValues(target, status).Observe(duration.Seconds())
}

// RecordOutcome increments the pair counter for an outcome
func (c *Collector) RecordOutcome(outcome string) {
	pairOutcomes.WithLabelValues(outcome).Inc()
}

// SetEnumeratedPairs sets the size of the current enumeration
func (c *Collector) SetEnumeratedPairs(count int) {
	enumeratedPairs.Set(float64(count))
}
