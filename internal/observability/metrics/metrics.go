package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// BookingMetrics exposes counters/histograms for the booking engine.
type BookingMetrics struct {
	slotQueriesTotal *prometheus.CounterVec
	bookingsTotal    *prometheus.CounterVec
	transitionsTotal *prometheus.CounterVec
	bookingLatency   *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		slotQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "slot_queries_total",
			Help:      "Total availability slot queries",
		}, []string{"status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "bookings_total",
			Help:      "Total booking attempts",
		}, []string{"status"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "status_transitions_total",
			Help:      "Total appointment status transitions",
		}, []string{"to", "status"}),
		bookingLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "agenda",
			Subsystem: "booking",
			Name:      "latency_seconds",
			Help:      "Latency of booking engine operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotQueriesTotal, m.bookingsTotal, m.transitionsTotal, m.bookingLatency)
	return m
}

func (m *BookingMetrics) ObserveSlotQuery(status string) {
	if m == nil {
		return
	}
	m.slotQueriesTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveBooking(status string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(status).Inc()
}

func (m *BookingMetrics) ObserveTransition(to, status string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(to, status).Inc()
}

func (m *BookingMetrics) ObserveLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.bookingLatency.WithLabelValues(operation).Observe(seconds)
}

// BookingSnapshot summarizes booking counters, used by ops dashboards.
type BookingSnapshot struct {
	BookingsCreated float64 `json:"bookings_created"`
	SlotConflicts   float64 `json:"slot_conflicts"`
}

// SnapshotBookings reads the booking counters back out of the registry.
func SnapshotBookings(gatherer prometheus.Gatherer) BookingSnapshot {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	mfs, err := gatherer.Gather()
	if err != nil {
		return BookingSnapshot{}
	}

	var snap BookingSnapshot
	for _, mf := range mfs {
		if mf == nil || mf.GetName() != "agenda_booking_bookings_total" {
			continue
		}
		for _, metric := range mf.Metric {
			if metric == nil || metric.GetCounter() == nil {
				continue
			}
			switch {
			case hasLabel(metric, "status", "created"):
				snap.BookingsCreated += metric.GetCounter().GetValue()
			case hasLabel(metric, "status", "conflict"):
				snap.SlotConflicts += metric.GetCounter().GetValue()
			}
		}
	}
	return snap
}

func hasLabel(metric *dto.Metric, name, value string) bool {
	for _, lp := range metric.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}
