package metrics

import "github.com/prometheus/client_golang/prometheus"

// CacheMetrics tracks result cache performance.
//
// Metrics:
//   - veredito_cache_hits_total: cache hits
//   - veredito_cache_misses_total: cache misses
//   - veredito_cache_entries: current number of entries
//   - veredito_cache_evictions_total: evictions (TTL expiry or explicit clear)
type CacheMetrics struct {
	hitsTotal      prometheus.Counter
	missesTotal    prometheus.Counter
	entries        prometheus.Gauge
	evictionsTotal prometheus.Counter
}

// NewCacheMetrics creates and registers cache metrics with the provided
// registry.
func NewCacheMetrics(namespace string, registry *prometheus.Registry) *CacheMetrics {
	cm := &CacheMetrics{
		hitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of result cache hits",
			},
		),

		missesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of result cache misses",
			},
		),

		entries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "cache_entries",
				Help:      "Current number of entries in the result cache",
			},
		),

		evictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_evictions_total",
				Help:      "Total number of result cache evictions",
			},
		),
	}

	registry.MustRegister(
		cm.hitsTotal,
		cm.missesTotal,
		cm.entries,
		cm.evictionsTotal,
	)

	return cm
}

// RecordHit records a cache hit.
func (cm *CacheMetrics) RecordHit() {
	cm.hitsTotal.Inc()
}

// RecordMiss records a cache miss.
func (cm *CacheMetrics) RecordMiss() {
	cm.missesTotal.Inc()
}

// UpdateSize updates the current cache size gauge.
func (cm *CacheMetrics) UpdateSize(size int) {
	cm.entries.Set(float64(size))
}

// RecordEviction records an eviction (TTL expiry, sweep, or explicit clear).
func (cm *CacheMetrics) RecordEviction() {
	cm.evictionsTotal.Inc()
}
