package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Счётчики бизнес-событий ядра бронирования. Экспонируются на /metrics.
var (
	BookingsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_created_total",
		Help: "Number of bookings successfully created.",
	})

	BookingConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_conflicts_total",
		Help: "Number of booking attempts rejected due to an overlapping window.",
	})

	BookingsConfirmed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_confirmed_total",
		Help: "Number of bookings confirmed by providers.",
	})

	BookingsCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_cancelled_total",
		Help: "Number of bookings cancelled.",
	})

	BookingsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookings_completed_total",
		Help: "Number of bookings completed.",
	})
)
