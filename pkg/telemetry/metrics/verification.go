package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VerificationMetrics tracks verification throughput and outcomes.
//
// Metrics:
//   - veredito_verifications_total: verifications by disposition and provenance
//   - veredito_verification_duration_seconds: verification latency
//   - veredito_verification_errors_total: verification failures by kind
//   - veredito_batches_total: batch verifications
//   - veredito_batch_aborts_total: batches stopped early, by reason
type VerificationMetrics struct {
	verificationsTotal *prometheus.CounterVec
	duration           *prometheus.HistogramVec
	errorsTotal        *prometheus.CounterVec
	batchesTotal       prometheus.Counter
	batchAbortsTotal   *prometheus.CounterVec
}

// NewVerificationMetrics creates and registers verification metrics with the
// provided registry.
func NewVerificationMetrics(namespace string, registry *prometheus.Registry) *VerificationMetrics {
	vm := &VerificationMetrics{
		verificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Total number of completed verifications",
			},
			[]string{"disposition", "provenance"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "verification_duration_seconds",
				Help:      "Verification latency in seconds",
				// Rule-only decisions land in the sub-millisecond buckets;
				// classifier-backed ones in the seconds range.
				Buckets: []float64{.0005, .001, .005, .025, .1, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"provenance"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verification_errors_total",
				Help:      "Total number of failed verifications by error kind",
			},
			[]string{"kind"},
		),

		batchesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batches_total",
				Help:      "Total number of batch verifications",
			},
		),

		batchAbortsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "batch_aborts_total",
				Help:      "Total number of batches stopped early, by abort reason",
			},
			[]string{"reason"},
		),
	}

	registry.MustRegister(
		vm.verificationsTotal,
		vm.duration,
		vm.errorsTotal,
		vm.batchesTotal,
		vm.batchAbortsTotal,
	)

	return vm
}

// RecordDecision records a completed verification.
func (vm *VerificationMetrics) RecordDecision(disposition, provenance string, elapsed time.Duration) {
	vm.verificationsTotal.WithLabelValues(disposition, provenance).Inc()
	vm.duration.WithLabelValues(provenance).Observe(elapsed.Seconds())
}

// RecordError records a failed verification.
func (vm *VerificationMetrics) RecordError(kind string) {
	vm.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordBatch records a completed batch verification.
func (vm *VerificationMetrics) RecordBatch() {
	vm.batchesTotal.Inc()
}

// RecordBatchAbort records a batch stopped early.
func (vm *VerificationMetrics) RecordBatchAbort(reason string) {
	vm.batchAbortsTotal.WithLabelValues(reason).Inc()
}
