package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pairpad_sessions_active",
		Help: "Number of live sessions in the registry.",
	})

	SessionsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pairpad_sessions_created_total",
		Help: "Sessions created since process start.",
	})

	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "pairpad_connections_active",
		Help: "Open WebSocket connections.",
	})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pairpad_ws_events_total",
		Help: "Inbound WebSocket events by type.",
	}, []string{"type"})
)
