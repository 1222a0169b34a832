// Package metrics exposes Prometheus instrumentation for workers, the
// guarded counter and the collector queues.
//
// A nil *Metrics is valid and records nothing, so callers can wire metrics
// optionally without branching.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/workerlab/internal/sysmon"
)

const namespace = "workerlab"

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry
	handler  http.Handler

	workersStarted  prometheus.Counter
	workersFinished *prometheus.CounterVec
	workersActive   prometheus.Gauge
	workerDuration  prometheus.Histogram

	deltasApplied prometheus.Counter
	counterValue  prometheus.Gauge

	queuePushed  prometheus.Counter
	queueDrained prometheus.Counter
}

// NewMetrics creates and registers all collectors, including the Go runtime,
// process and system load collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		workersStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workers_started_total",
			Help:      "Number of workers started by the coordinator.",
		}),
		workersFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workers_finished_total",
			Help:      "Number of workers joined, by outcome.",
		}, []string{"status"}),
		workersActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "workers_active",
			Help:      "Workers started and not yet joined.",
		}),
		workerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "worker_duration_seconds",
			Help:      "Wall time of a worker from start to join.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
		deltasApplied: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "counter_deltas_applied_total",
			Help:      "Guarded read-modify-write cycles completed on the shared counter.",
		}),
		counterValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "counter_value",
			Help:      "Last value written to the shared counter.",
		}),
		queuePushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_pushed_total",
			Help:      "Values pushed into collector queues.",
		}),
		queueDrained: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queue_drained_total",
			Help:      "Values drained from collector queues.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.workersStarted,
		m.workersFinished,
		m.workersActive,
		m.workerDuration,
		m.deltasApplied,
		m.counterValue,
		m.queuePushed,
		m.queueDrained,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_cpu_percent",
			Help:      "System-wide CPU usage sampled at scrape time.",
		}, func() float64 { return sysmon.Sample().CPUPercent }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_memory_percent",
			Help:      "System-wide memory usage sampled at scrape time.",
		}, func() float64 { return sysmon.Sample().MemPercent }),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return m.handler
}

// WritePrometheus serves the metrics exposition for a single request.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.Handler().ServeHTTP(w, r)
}

// WorkerStarted records a worker being launched.
func (m *Metrics) WorkerStarted() {
	if m == nil {
		return
	}
	m.workersStarted.Inc()
	m.workersActive.Inc()
}

// WorkerFinished records a worker being joined.
func (m *Metrics) WorkerFinished(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.workersFinished.WithLabelValues(status).Inc()
	m.workersActive.Dec()
	m.workerDuration.Observe(d.Seconds())
}

// DeltaApplied implements counter.Observer.
func (m *Metrics) DeltaApplied(_, value int64) {
	if m == nil {
		return
	}
	m.deltasApplied.Inc()
	m.counterValue.Set(float64(value))
}

// Pushed implements queue.Observer.
func (m *Metrics) Pushed() {
	if m == nil {
		return
	}
	m.queuePushed.Inc()
}

// Drained implements queue.Observer.
func (m *Metrics) Drained(n int) {
	if m == nil {
		return
	}
	m.queueDrained.Add(float64(n))
}
