package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lockerd_reservations_created_total",
		Help: "Total number of slot reservations successfully created.",
	})

	DeliveriesConfirmedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lockerd_deliveries_confirmed_total",
		Help: "Total number of deliveries confirmed and pickup codes issued.",
	})

	PickupsCompletedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lockerd_pickups_completed_total",
		Help: "Total number of reservations completed by verified pickup.",
	})

	ReservationsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lockerd_reservations_expired_total",
		Help: "Total number of reservations reclaimed after lease expiry.",
	})

	ReservationsCancelledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lockerd_reservations_cancelled_total",
		Help: "Total number of reservations explicitly cancelled.",
	})

	NoCapacityTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockerd_no_capacity_total",
		Help: "Total number of reserve calls rejected for lack of capacity.",
	},
		[]string{"size_class"},
	)

	VerificationFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockerd_verification_failures_total",
		Help: "Total number of failed pickup verification attempts.",
	},
		[]string{"reason"},
	)

	OperationErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lockerd_operation_errors_total",
		Help: "Total number of errors encountered during specific operations.",
	},
		[]string{"operation"},
	)

	ReservationCacheItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lockerd_reservation_cache_items",
		Help: "Current number of items in the active reservation cache.",
	})
)
