package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "typerace"

const (
	OutcomeCompleted = "completed"
	OutcomeTimeout   = "timeout"
	OutcomeCancelled = "cancelled"
)

var (
	// 1) Live rooms in the registry
	ActiveRooms = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_rooms",
		Help:      "Rooms currently in countdown or play.",
	})

	// 2) Matchmaking slot occupancy (0 or 1)
	WaitingPlayers = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "waiting_players",
		Help:      "Participants parked in the matchmaking slot.",
	})

	// 3) Open websocket connections
	ConnectedClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "connected_clients",
		Help:      "Currently connected websocket clients.",
	})

	// 4) Terminal room transitions
	MatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "matches_total",
		Help:      "Matches that reached a terminal state, by outcome.",
	}, []string{"outcome"})

	// 5) Inbound client events
	InboundEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inbound_events_total",
		Help:      "Client events received, by event name.",
	}, []string{"event"})

	// 6) Room lifetime
	MatchDurationSeconds = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "match_duration_seconds",
		Help:      "Time from room creation to its terminal state.",
		Buckets:   []float64{1, 5, 10, 20, 30, 45, 60, 75, 90, 120},
	})
)

func MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(
		ActiveRooms,
		WaitingPlayers,
		ConnectedClients,
		MatchesTotal,
		InboundEventsTotal,
		MatchDurationSeconds,
	)
}
