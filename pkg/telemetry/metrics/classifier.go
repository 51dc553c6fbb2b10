package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClassifierMetrics tracks external classifier usage. Classifier calls are
// the only paid operation in the pipeline, so these counters are what the
// cost-control dashboards watch.
//
// Metrics:
//   - veredito_classifier_calls_total: calls by provider
//   - veredito_classifier_errors_total: failures by provider and kind
//   - veredito_classifier_duration_seconds: call latency by provider
type ClassifierMetrics struct {
	callsTotal  *prometheus.CounterVec
	errorsTotal *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewClassifierMetrics creates and registers classifier metrics with the
// provided registry.
func NewClassifierMetrics(namespace string, registry *prometheus.Registry) *ClassifierMetrics {
	cm := &ClassifierMetrics{
		callsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifier_calls_total",
				Help:      "Total number of external classifier calls",
			},
			[]string{"provider"},
		),

		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "classifier_errors_total",
				Help:      "Total number of failed classifier calls by error kind",
			},
			[]string{"provider", "kind"},
		),

		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "classifier_duration_seconds",
				Help:      "Classifier call latency in seconds",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"provider"},
		),
	}

	registry.MustRegister(
		cm.callsTotal,
		cm.errorsTotal,
		cm.duration,
	)

	return cm
}

// RecordCall records a successful classifier call.
func (cm *ClassifierMetrics) RecordCall(provider string, elapsed time.Duration) {
	cm.callsTotal.WithLabelValues(provider).Inc()
	cm.duration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordError records a failed classifier call.
func (cm *ClassifierMetrics) RecordError(provider, kind string) {
	cm.errorsTotal.WithLabelValues(provider, kind).Inc()
}
