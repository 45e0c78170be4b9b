package jobregistry

import "github.com/prometheus/client_golang/prometheus"

var (
	registryEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobstream",
			Subsystem: "registry",
			Name:      "events_total",
			Help:      "Total job events dispatched to listeners",
		},
		[]string{"type"},
	)

	registryListeners = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobstream",
			Subsystem: "registry",
			Name:      "listeners",
			Help:      "Listeners currently subscribed to job registries",
		},
	)

	registryJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobstream",
			Subsystem: "registry",
			Name:      "jobs",
			Help:      "Jobs currently registered",
		},
	)

	listenerPanicsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jobstream",
			Subsystem: "registry",
			Name:      "listener_panics_total",
			Help:      "Listener callbacks that panicked",
		},
	)
)

func init() {
	prometheus.MustRegister(registryEventsTotal, registryListeners, registryJobs, listenerPanicsTotal)
}
