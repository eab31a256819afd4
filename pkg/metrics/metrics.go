// Package metrics provides Prometheus instrumentation for pullstream components.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace is the metric namespace used when Config.Namespace is empty.
const DefaultNamespace = "pullstream"

// Registry holds all metric instances for pullstream components.
type Registry struct {
	// Buffer metrics
	BufferEmitted      *prometheus.CounterVec
	BufferPulled       *prometheus.CounterVec
	BufferRejected     *prometheus.CounterVec
	BufferEnded        *prometheus.CounterVec
	BufferDepth        *prometheus.GaugeVec
	BufferWaiters      *prometheus.GaugeVec
	BufferPullDuration *prometheus.HistogramVec

	// Tee metrics
	TeeRounds *prometheus.CounterVec
	TeeJoined *prometheus.CounterVec

	// Source metrics
	SourceItems  *prometheus.CounterVec
	SourceErrors *prometheus.CounterVec
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the process-wide registry bound to prometheus.DefaultRegisterer.
// It is created on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Enabled: true, Registry: reg})
}

// NewRegistryWithConfig creates a metrics registry honouring the namespace and
// constant labels of config.
func NewRegistryWithConfig(config Config) *Registry {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)
	labels := config.Labels

	return &Registry{
		BufferEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "buffer",
				Name:        "emitted_total",
				Help:        "Total number of values accepted by buffer sinks",
				ConstLabels: labels,
			},
			[]string{"buffer"},
		),

		BufferPulled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "buffer",
				Name:        "pulled_total",
				Help:        "Total number of values delivered to pulls",
				ConstLabels: labels,
			},
			[]string{"buffer"},
		),

		BufferRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "buffer",
				Name:        "rejected_total",
				Help:        "Emit or End calls rejected because the buffer had already ended",
				ConstLabels: labels,
			},
			[]string{"buffer", "op"},
		),

		BufferEnded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "buffer",
				Name:        "ended_total",
				Help:        "Number of buffers that reached the ended state",
				ConstLabels: labels,
			},
			[]string{"buffer"},
		),

		BufferDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "buffer",
				Name:        "depth",
				Help:        "Number of values buffered and not yet pulled",
				ConstLabels: labels,
			},
			[]string{"buffer"},
		),

		BufferWaiters: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   ns,
				Subsystem:   "buffer",
				Name:        "waiters",
				Help:        "Number of pulls suspended waiting for a value",
				ConstLabels: labels,
			},
			[]string{"buffer"},
		),

		BufferPullDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "buffer",
				Name:        "pull_wait_seconds",
				Help:        "Time a suspended pull waited before being woken",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: labels,
			},
			[]string{"buffer"},
		),

		TeeRounds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "tee",
				Name:        "rounds_total",
				Help:        "Number of underlying pulls performed by a tee",
				ConstLabels: labels,
			},
			[]string{"tee"},
		),

		TeeJoined: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "tee",
				Name:        "joined_total",
				Help:        "Number of pulls that joined an in-flight round instead of pulling",
				ConstLabels: labels,
			},
			[]string{"tee"},
		),

		SourceItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "source",
				Name:        "items_total",
				Help:        "Number of values produced by external sources",
				ConstLabels: labels,
			},
			[]string{"source"},
		),

		SourceErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   "source",
				Name:        "errors_total",
				Help:        "Number of failures raised by external sources",
				ConstLabels: labels,
			},
			[]string{"source"},
		),
	}
}

// BufferMetrics is the set of buffer metrics curried with one buffer name.
// All methods are safe on a nil receiver, which records nothing.
type BufferMetrics struct {
	emitted  prometheus.Counter
	pulled   prometheus.Counter
	rejected *prometheus.CounterVec
	ended    prometheus.Counter
	depth    prometheus.Gauge
	waiters  prometheus.Gauge
	wait     prometheus.Observer
	name     string
	registry *Registry
}

// Buffer returns the metrics for the named buffer. A nil registry yields nil.
func (r *Registry) Buffer(name string) *BufferMetrics {
	if r == nil {
		return nil
	}
	return &BufferMetrics{
		emitted:  r.BufferEmitted.WithLabelValues(name),
		pulled:   r.BufferPulled.WithLabelValues(name),
		rejected: r.BufferRejected,
		ended:    r.BufferEnded.WithLabelValues(name),
		depth:    r.BufferDepth.WithLabelValues(name),
		waiters:  r.BufferWaiters.WithLabelValues(name),
		wait:     r.BufferPullDuration.WithLabelValues(name),
		name:     name,
		registry: r,
	}
}

// Sibling returns metrics for another buffer in the same registry, such as a clone.
func (m *BufferMetrics) Sibling(name string) *BufferMetrics {
	if m == nil {
		return nil
	}
	return m.registry.Buffer(name)
}

// Emitted records an accepted Emit.
func (m *BufferMetrics) Emitted() {
	if m == nil {
		return
	}
	m.emitted.Inc()
}

// Pulled records a value handed to a pull.
func (m *BufferMetrics) Pulled() {
	if m == nil {
		return
	}
	m.pulled.Inc()
}

// Rejected records an Emit or End refused with ErrAlreadyEnded.
func (m *BufferMetrics) Rejected(op string) {
	if m == nil {
		return
	}
	m.rejected.WithLabelValues(m.name, op).Inc()
}

// Ended records the transition to the ended state.
func (m *BufferMetrics) Ended() {
	if m == nil {
		return
	}
	m.ended.Inc()
}

// State publishes the current depth and waiter count.
func (m *BufferMetrics) State(depth, waiters int) {
	if m == nil {
		return
	}
	m.depth.Set(float64(depth))
	m.waiters.Set(float64(waiters))
}

// Waited records how long a suspended pull waited.
func (m *BufferMetrics) Waited(d time.Duration) {
	if m == nil {
		return
	}
	m.wait.Observe(d.Seconds())
}

// TeeMetrics is the set of tee metrics curried with one tee name.
// All methods are safe on a nil receiver.
type TeeMetrics struct {
	rounds prometheus.Counter
	joined prometheus.Counter
}

// Tee returns the metrics for the named tee. A nil registry yields nil.
func (r *Registry) Tee(name string) *TeeMetrics {
	if r == nil {
		return nil
	}
	return &TeeMetrics{
		rounds: r.TeeRounds.WithLabelValues(name),
		joined: r.TeeJoined.WithLabelValues(name),
	}
}

// Round records an underlying pull.
func (m *TeeMetrics) Round() {
	if m == nil {
		return
	}
	m.rounds.Inc()
}

// Joined records a pull that shared an in-flight round.
func (m *TeeMetrics) Joined() {
	if m == nil {
		return
	}
	m.joined.Inc()
}

// SourceMetrics is the set of source metrics curried with one source name.
// All methods are safe on a nil receiver.
type SourceMetrics struct {
	items  prometheus.Counter
	errors prometheus.Counter
}

// Source returns the metrics for the named source. A nil registry yields nil.
func (r *Registry) Source(name string) *SourceMetrics {
	if r == nil {
		return nil
	}
	return &SourceMetrics{
		items:  r.SourceItems.WithLabelValues(name),
		errors: r.SourceErrors.WithLabelValues(name),
	}
}

// Item records a produced value.
func (m *SourceMetrics) Item() {
	if m == nil {
		return
	}
	m.items.Inc()
}

// Error records a source failure.
func (m *SourceMetrics) Error() {
	if m == nil {
		return
	}
	m.errors.Inc()
}
