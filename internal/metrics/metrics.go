// Package metrics exposes the engine's Prometheus instrumentation: command
// latency by kind and outcome, autosave duration, connection counts and
// broadcast queue depth, and the selector's slot-fallback rate.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles every collector the engine, scheduler and IPC hub report
// to. It is constructed once per process against its own registry so tests
// can create independent instances without colliding on the default
// registry's global metric names.
type Metrics struct {
	registry *prometheus.Registry

	commandsTotal   *prometheus.CounterVec
	commandDuration *prometheus.HistogramVec

	autosaveDuration prometheus.Histogram
	autosaveFailures prometheus.Counter

	connectionsActive prometheus.Gauge
	broadcastQueueLen prometheus.Gauge
	broadcastDropped  prometheus.Counter

	selectorFallbacksTotal *prometheus.CounterVec
}

// New constructs a Metrics bundle registered against a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		commandsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "truinlag_commands_total",
				Help: "Total number of engine commands processed, by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		),
		commandDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "truinlag_command_duration_seconds",
				Help:    "Time spent inside step() per command kind.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		autosaveDuration: promauto.With(reg).NewHistogram(
			prometheus.HistogramOpts{
				Name:    "truinlag_autosave_duration_seconds",
				Help:    "Duration of the autosave snapshot-to-commit transaction.",
				Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
			},
		),
		autosaveFailures: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "truinlag_autosave_failures_total",
				Help: "Total number of autosave transactions that failed to commit.",
			},
		),
		connectionsActive: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "truinlag_connections_active",
				Help: "Number of currently connected IPC clients.",
			},
		),
		broadcastQueueLen: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "truinlag_broadcast_queue_length",
				Help: "Current depth of the broadcast fan-out queue.",
			},
		),
		broadcastDropped: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "truinlag_broadcast_dropped_total",
				Help: "Total number of broadcasts dropped due to a full connection queue.",
			},
		),
		selectorFallbacksTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "truinlag_selector_fallbacks_total",
				Help: "Total number of times the selector's filter cascade fell back to a looser level.",
			},
			[]string{"level"},
		),
	}
	return m
}

// Handler serves the registry's metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCommand records one processed command's kind and outcome.
func (m *Metrics) ObserveCommand(kind, outcome string) {
	m.commandsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveCommandDuration records the time step() took for a command kind.
func (m *Metrics) ObserveCommandDuration(kind string, seconds float64) {
	m.commandDuration.WithLabelValues(kind).Observe(seconds)
}

// ObserveAutosave records one autosave transaction's duration and outcome.
func (m *Metrics) ObserveAutosave(seconds float64, failed bool) {
	m.autosaveDuration.Observe(seconds)
	if failed {
		m.autosaveFailures.Inc()
	}
}

// SetConnectionsActive reports the current IPC connection count.
func (m *Metrics) SetConnectionsActive(n int) {
	m.connectionsActive.Set(float64(n))
}

// SetBroadcastQueueLength reports the current broadcast queue depth.
func (m *Metrics) SetBroadcastQueueLength(n int) {
	m.broadcastQueueLen.Set(float64(n))
}

// ObserveBroadcastDropped records one broadcast dropped for backpressure.
func (m *Metrics) ObserveBroadcastDropped() {
	m.broadcastDropped.Inc()
}

// ObserveSelectorFallback records the selector's filter cascade relaxing to
// the given level (spec.md §4.3.2).
func (m *Metrics) ObserveSelectorFallback(level string) {
	m.selectorFallbacksTotal.WithLabelValues(level).Inc()
}
