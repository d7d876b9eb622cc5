package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	AppointmentsCreated prometheus.Counter
	ConflictsRejected   *prometheus.CounterVec
	Cancellations       prometheus.Counter
	NoShowsMarked       prometheus.Counter
}

func NewCollector() *Collector {
	return &Collector{
		AppointmentsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "appointments_created_total",
			Help:      "Total appointments successfully booked.",
		}),

		ConflictsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "conflicts_rejected_total",
			Help:      "Bookings rejected because an interval overlapped, by conflicting party.",
		}, []string{"party"}),

		Cancellations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "cancellations_total",
			Help:      "Total appointments cancelled.",
		}),

		NoShowsMarked: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduling",
			Name:      "no_shows_marked_total",
			Help:      "Appointments transitioned to no_show by the background sweep.",
		}),
	}
}

func Handler() http.Handler {
	return promhttp.Handler()
}
