// Package metrics provides Prometheus instrumentation for Veredito:
// verification outcomes and latency, result cache effectiveness, and
// external classifier usage and failures.
package metrics
