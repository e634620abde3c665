// Package metrics collects harness and runtime measurements.
//
// HarnessMetrics is a harness.Observer backed by a private Prometheus
// registry; MemorySampler reads Go runtime memory for the verbose report
// and the dashboard.
package metrics
