// Package metrics provides Prometheus metrics for the resirank rating tool.
package metrics

import (
	"fmt"
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Comparison outcome labels.
const (
	OutcomeApplied = "applied"
	OutcomeSkipped = "skipped"
)

// Manager manages all Prometheus metrics for the rating tool.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Rating activity
	comparisons   *prometheus.CounterVec
	ratingDelta   *prometheus.HistogramVec
	registrations *prometheus.CounterVec
	entities      *prometheus.GaugeVec

	// Snapshot persistence
	snapshotWrites        *prometheus.CounterVec
	snapshotErrors        *prometheus.CounterVec
	snapshotWriteDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "resirank",
		subsystem:        "ratings",
		histogramBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250},
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.comparisons = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "comparisons_total",
		Help:        "Pairwise judgments by dimension, store scope and outcome",
		ConstLabels: labels,
	}, []string{"dimension", "scope", "outcome"})

	m.ratingDelta = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "rating_delta_points",
		Help:        "Absolute rating change applied to each side of a judgment",
		Buckets:     []float64{1, 2, 4, 8, 12, 16, 20, 24, 28, 32, 64},
		ConstLabels: labels,
	}, []string{"dimension"})

	m.registrations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "registrations_total",
		Help:        "Entities newly registered per store scope",
		ConstLabels: labels,
	}, []string{"scope"})

	m.entities = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "entities",
		Help:        "Entities currently held per store scope",
		ConstLabels: labels,
	}, []string{"scope"})

	m.snapshotWrites = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_writes_total",
		Help:        "Successful snapshot file writes per store scope",
		ConstLabels: labels,
	}, []string{"scope"})

	m.snapshotErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_errors_total",
		Help:        "Failed snapshot encodes or writes per store scope",
		ConstLabels: labels,
	}, []string{"scope"})

	m.snapshotWriteDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "snapshot_write_duration_milliseconds",
		Help:        "Time to encode and write a snapshot file",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"scope"})
}

// RecordComparison counts one judgment on dimension for scope.
func (m *Manager) RecordComparison(dimension, scope string, applied bool, delta float64) {
	if !m.enabled {
		return
	}
	outcome := OutcomeSkipped
	if applied {
		outcome = OutcomeApplied
		m.ratingDelta.WithLabelValues(dimension).Observe(math.Abs(delta))
	}
	m.comparisons.WithLabelValues(dimension, scope, outcome).Inc()
}

// RecordRegistration counts one new entity in scope.
func (m *Manager) RecordRegistration(scope string) {
	if m.enabled {
		m.registrations.WithLabelValues(scope).Inc()
	}
}

// UpdateEntityCount sets the entity gauge for scope.
func (m *Manager) UpdateEntityCount(scope string, count int) {
	if m.enabled {
		m.entities.WithLabelValues(scope).Set(float64(count))
	}
}

// RecordSnapshotWrite counts a successful write and its duration.
func (m *Manager) RecordSnapshotWrite(scope string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.snapshotWrites.WithLabelValues(scope).Inc()
	m.snapshotWriteDuration.WithLabelValues(scope).Observe(durationMs)
}

// RecordSnapshotError counts a failed snapshot write.
func (m *Manager) RecordSnapshotError(scope string) {
	if m.enabled {
		m.snapshotErrors.WithLabelValues(scope).Inc()
	}
}

// RecordComparison counts one judgment on the global manager.
func RecordComparison(dimension, scope string, applied bool, delta float64) {
	globalManager.RecordComparison(dimension, scope, applied, delta)
}

// RecordRegistration counts one new entity on the global manager.
func RecordRegistration(scope string) {
	globalManager.RecordRegistration(scope)
}

// UpdateEntityCount sets the entity gauge on the global manager.
func UpdateEntityCount(scope string, count int) {
	globalManager.UpdateEntityCount(scope, count)
}

// RecordSnapshotWrite records a snapshot write on the global manager.
func RecordSnapshotWrite(scope string, durationMs float64) {
	globalManager.RecordSnapshotWrite(scope, durationMs)
}

// RecordSnapshotError records a snapshot failure on the global manager.
func RecordSnapshotError(scope string) {
	globalManager.RecordSnapshotError(scope)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// WriteTextfile writes the current metrics in the text exposition format to
// path, for pickup by a node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, customRegistry); err != nil {
		return fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	return nil
}
