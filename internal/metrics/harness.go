package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/common/expfmt"

	"github.com/agbru/fanout/internal/harness"
)

const namespace = "fanout"

// HarnessMetrics records worker lifecycle events as Prometheus metrics.
// It uses its own registry so several instances can coexist.
type HarnessMetrics struct {
	harness.NopObserver

	registry *prometheus.Registry
	spawned  prometheus.Counter
	rejected prometheus.Counter
	finished *prometheus.CounterVec
	active   prometheus.Gauge
	duration prometheus.Histogram
}

var _ harness.Observer = (*HarnessMetrics)(nil)

// NewHarnessMetrics creates the metrics and registers them, together with the
// Go runtime and process collectors, on a fresh registry.
func NewHarnessMetrics() *HarnessMetrics {
	m := &HarnessMetrics{
		registry: prometheus.NewRegistry(),
		spawned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workers_spawned_total",
			Help:      "Workers successfully spawned.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "spawn_rejections_total",
			Help:      "Spawns refused because the worker limit was reached.",
		}),
		finished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workers_finished_total",
			Help:      "Workers that terminated, by outcome.",
		}, []string{"status"}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_active",
			Help:      "Workers spawned but not yet terminated.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_duration_seconds",
			Help:      "Time spent in the worker body.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
	}
	m.registry.MustRegister(
		m.spawned, m.rejected, m.finished, m.active, m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: namespace}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *HarnessMetrics) Registry() *prometheus.Registry { return m.registry }

func (m *HarnessMetrics) WorkerSpawned(uint64, harness.WorkItem) {
	m.spawned.Inc()
	m.active.Inc()
}

func (m *HarnessMetrics) WorkerFinished(_ uint64, r harness.Result) {
	m.active.Dec()
	m.finished.WithLabelValues(r.Status.String()).Inc()
	m.duration.Observe(r.Duration.Seconds())
}

func (m *HarnessMetrics) SpawnRejected(harness.WorkItem, error) {
	m.rejected.Inc()
}

// WriteText writes every registered metric in the Prometheus text format.
func (m *HarnessMetrics) WriteText(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
