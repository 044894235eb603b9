package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QuotesGeneratedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bikerental_quotes_generated_total",
		Help: "Total number of quotes produced by providers.",
	})

	AllocationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bikerental_allocation_failures_total",
		Help: "Total number of quote requests a provider could not fully satisfy.",
	})

	BookingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikerental_bookings_total",
		Help: "Booking attempts by outcome.",
	},
		[]string{"outcome"},
	)

	ReturnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikerental_returns_total",
		Help: "Return requests by outcome.",
	},
		[]string{"outcome"},
	)

	DeliveriesScheduledTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bikerental_deliveries_scheduled_total",
		Help: "Total number of bikes handed to the delivery service.",
	})

	PolicyViolationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikerental_policy_violations_total",
		Help: "Non-fatal pricing and configuration problems.",
	},
		[]string{"policy", "reason"},
	)

	CollaboratorErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikerental_collaborator_errors_total",
		Help: "Errors from journal, event stream and e-mail collaborators.",
	},
		[]string{"collaborator"},
	)

	JobRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bikerental_job_runs_total",
		Help: "Scheduled job runs by job and outcome.",
	},
		[]string{"job", "outcome"},
	)

	OpenQuotes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bikerental_open_quotes",
		Help: "Quotes currently held for booking.",
	})
)
