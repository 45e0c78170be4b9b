package jobservice

import "github.com/prometheus/client_golang/prometheus"

var (
	watchesActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "jobstream",
		Subsystem: "watch",
		Name:      "active",
		Help:      "Event watches currently streaming",
	})

	watchDroppedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "jobstream",
		Subsystem: "watch",
		Name:      "dropped_total",
		Help:      "Job events dropped because a watcher's buffer was full",
	})
)

func init() {
	prometheus.MustRegister(watchesActive, watchDroppedTotal)
}
