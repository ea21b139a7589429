package common

import "github.com/prometheus/client_golang/prometheus"

const (
	EventTotal           = "lotto_events_total"
	EventDurationSeconds = "lotto_event_duration_seconds"
	ActiveConnections    = "lotto_active_connections"
)

var (
	PromGauges = map[string]*prometheus.GaugeVec{
		ActiveConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: ActiveConnections,
			Help: "Number of open websocket connections",
		}, []string{}),
	}

	PromCounters = map[string]*prometheus.CounterVec{
		EventTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: EventTotal,
			Help: "Count of all handled client events",
		}, []string{"event", "result"}),
	}

	PromHistograms = map[string]*prometheus.HistogramVec{
		EventDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: EventDurationSeconds,
			Help: "Duration of handling client events",
		}, []string{"event"}),
	}
)
