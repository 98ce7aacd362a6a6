package observability

import (
	gu "github.com/xraph/go-utils/metrics"
)

// Metrics holds the pipeline's metric instruments, backed by any go-utils
// MetricFactory (e.g. the forge-managed metrics system via fapp.Metrics()).
//
// All Record methods are no-ops on a nil *Metrics.
type Metrics struct {
	EventsAnnouncedTotal gu.Counter
	DeliveriesTotal      gu.Counter
	DeliveryLatency      gu.Histogram
	FailuresTotal        gu.Counter
	PendingJobs          gu.Gauge
}

// NewMetrics creates metric instruments using the supplied factory.
func NewMetrics(factory gu.MetricFactory) *Metrics {
	return &Metrics{
		EventsAnnouncedTotal: factory.Counter("announce_events_total"),
		DeliveriesTotal:      factory.Counter("announce_deliveries_total"),
		DeliveryLatency:      factory.Histogram("announce_delivery_latency_seconds"),
		FailuresTotal:        factory.Counter("announce_failures_total"),
		PendingJobs:          factory.Gauge("announce_pending_jobs"),
	}
}

// RecordEvent counts an announced event by name.
func (m *Metrics) RecordEvent(eventName string) {
	if m == nil {
		return
	}
	m.EventsAnnouncedTotal.WithLabels(map[string]string{"event_name": eventName}).Inc()
}

// RecordDelivery records a delivery attempt with the given status
// ("delivered", "failed", "scheduled") and latency.
func (m *Metrics) RecordDelivery(status string, latencySeconds float64) {
	if m == nil {
		return
	}
	m.DeliveriesTotal.WithLabels(map[string]string{"status": status}).Inc()
	if status != "scheduled" {
		m.DeliveryLatency.Observe(latencySeconds)
	}
}

// RecordFailure counts a surfaced failure by its error kind.
func (m *Metrics) RecordFailure(kind string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabels(map[string]string{"error_kind": kind}).Inc()
}

// JobScheduled and JobCompleted track the number of pending jobs.
func (m *Metrics) JobScheduled() {
	if m == nil {
		return
	}
	m.PendingJobs.Inc()
}

func (m *Metrics) JobCompleted() {
	if m == nil {
		return
	}
	m.PendingJobs.Dec()
}
