// Package monitoring holds the relay's Prometheus metrics.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects relay counters and gauges. Legs are labeled "client"
// (external automation client) and "plugin" (execution context).
type Metrics struct {
	Connections      *prometheus.GaugeVec
	ConnectionsTotal *prometheus.CounterVec
	MessagesRelayed  *prometheus.CounterVec
	MessagesDropped  *prometheus.CounterVec
	Superseded       *prometheus.CounterVec
}

// NewMetrics creates and registers the relay metrics on a dedicated
// registry, so repeated construction in tests does not collide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Connections: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "relay_connections",
				Help: "Active WebSocket connections per leg",
			},
			[]string{"leg"},
		),
		ConnectionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_connections_total",
				Help: "Total accepted WebSocket connections per leg",
			},
			[]string{"leg"},
		),
		MessagesRelayed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_messages_relayed_total",
				Help: "Messages forwarded between legs",
			},
			[]string{"from"},
		),
		MessagesDropped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_messages_dropped_total",
				Help: "Messages dropped instead of forwarded",
			},
			[]string{"from", "reason"},
		),
		Superseded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "relay_connections_superseded_total",
				Help: "Connections closed because a newer one replaced them",
			},
			[]string{"leg"},
		),
	}
}
