package jobevents

import "github.com/prometheus/client_golang/prometheus"

var (
	submittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobstream",
		Subsystem: "jobevents",
		Name:      "submitted_total",
		Help:      "Job event tuples submitted to streams",
	})

	transformFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobstream",
		Subsystem: "jobevents",
		Name:      "transform_failures_total",
		Help:      "Job events dropped because the transform panicked",
	})

	unboundDropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobstream",
		Subsystem: "jobevents",
		Name:      "unbound_drops_total",
		Help:      "Job events delivered to a listener with no bound output",
	})

	activeSources = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jobstream",
		Subsystem: "jobevents",
		Name:      "active_sources",
		Help:      "Job events sources currently subscribed to a registry",
	})
)

func init() {
	prometheus.MustRegister(submittedTotal, transformFailuresTotal, unboundDropsTotal, activeSources)
}
