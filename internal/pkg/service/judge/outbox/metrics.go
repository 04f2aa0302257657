package outbox

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	dispatched *prometheus.CounterVec
	sweeps     prometheus.Counter
	pending    prometheus.Gauge
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "outbox",
			Name:      "dispatch_total",
			Help:      "Count of dispatch attempts by result.",
		}, []string{"result"}),
		sweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "judge",
			Subsystem: "outbox",
			Name:      "sweeps_total",
			Help:      "Count of retry sweep runs.",
		}),
		pending: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "judge",
			Subsystem: "outbox",
			Name:      "pending_records",
			Help:      "Number of records waiting for a confirmed dispatch.",
		}),
	}
	reg.MustRegister(m.dispatched, m.sweeps, m.pending)
	return m
}
