package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Collector is the orchestrator for all Prometheus metrics in Veredito.
// It owns the registry and the per-concern metric groups, and provides the
// handler for the /metrics endpoint.
type Collector struct {
	namespace string
	registry  *prometheus.Registry

	// Verification metrics
	verificationMetrics *VerificationMetrics

	// Cache metrics
	cacheMetrics *CacheMetrics

	// Classifier metrics
	classifierMetrics *ClassifierMetrics
}

// NewCollector creates a new metrics collector with the specified namespace
// and Prometheus registry. If registry is nil, a fresh registry is created
// and seeded with the standard Go runtime and process collectors.
func NewCollector(namespace string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	c := &Collector{
		namespace: namespace,
		registry:  registry,
	}

	c.verificationMetrics = NewVerificationMetrics(namespace, registry)
	c.cacheMetrics = NewCacheMetrics(namespace, registry)
	c.classifierMetrics = NewClassifierMetrics(namespace, registry)

	return c
}

// Verification returns the verification metric group.
func (c *Collector) Verification() *VerificationMetrics {
	return c.verificationMetrics
}

// Cache returns the cache metric group.
func (c *Collector) Cache() *CacheMetrics {
	return c.cacheMetrics
}

// Classifier returns the classifier metric group.
func (c *Collector) Classifier() *ClassifierMetrics {
	return c.classifierMetrics
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
