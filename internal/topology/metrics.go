package topology

import "github.com/prometheus/client_golang/prometheus"

var executionsActive = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Namespace: "jobstream",
		Subsystem: "topology",
		Name:      "executions_active",
		Help:      "Topology executions that have been submitted and not yet closed",
	},
)

func init() {
	prometheus.MustRegister(executionsActive)
}
