// Package metrics exposes console counters in the Prometheus format.
// Label values come from fixed sets (connection keys, status filters,
// event kinds), so cardinality stays bounded.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/deicod/ermblog-console/internal/domain"
)

const namespace = "console"

// Metrics holds the console collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	edgesInserted *prometheus.CounterVec
	edgesRemoved  *prometheus.CounterVec
	events        *prometheus.CounterVec
	eventErrors   *prometheus.CounterVec
}

// New creates Metrics and registers its collectors. records, when non-nil,
// reports the number of records held by the cache.
func New(records func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		edgesInserted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_edges_inserted_total",
			Help:      "Edges inserted into cached connections by event handling.",
		}, []string{"connection", "filter"}),
		edgesRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_edges_removed_total",
			Help:      "Edges removed from cached connections by event handling.",
		}, []string{"connection", "filter"}),
		events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Lifecycle events applied to the cache.",
		}, []string{"entity", "kind"}),
		eventErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_errors_total",
			Help:      "Lifecycle events that could not be decoded or applied.",
		}, []string{"entity", "kind"}),
	}

	m.registry.MustRegister(
		m.edgesInserted,
		m.edgesRemoved,
		m.events,
		m.eventErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if records != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_records",
			Help:      "Records currently held by the normalized cache.",
		}, func() float64 { return float64(records()) }))
	}
	return m
}

// EdgeInserted counts one edge added to connection under filter.
func (m *Metrics) EdgeInserted(connection, filter string) {
	m.edgesInserted.WithLabelValues(connection, filter).Inc()
}

// EdgeRemoved counts one edge removed from connection under filter.
func (m *Metrics) EdgeRemoved(connection, filter string) {
	m.edgesRemoved.WithLabelValues(connection, filter).Inc()
}

// EventApplied counts a handled lifecycle event.
func (m *Metrics) EventApplied(entity domain.Entity, kind domain.EventKind) {
	m.events.WithLabelValues(string(entity), string(kind)).Inc()
}

// EventFailed counts a lifecycle event that was dropped.
func (m *Metrics) EventFailed(entity domain.Entity, kind domain.EventKind) {
	m.eventErrors.WithLabelValues(string(entity), string(kind)).Inc()
}

// Handler serves the registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
