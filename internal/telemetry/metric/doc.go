// Package metric provides Prometheus metrics for xpconnect.
//
//   - prometheus.go: registry, flight loop series and HTTP handler
//   - collector.go: collector reporting the shared channel state
//
// Metrics are exposed at /metrics in Prometheus format when the host is
// started with a metrics address.
package metric
