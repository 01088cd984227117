package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(sessionEvents) }

var sessionEvents = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "admin_session_events_total",
		Help: "Admin session transitions (login, logout) with their reason.",
	},
	[]string{"event", "reason"}, // reason for logout: manual|unauthorized
)

func IncSessionEvent(event, reason string) {
	sessionEvents.WithLabelValues(norm(event), norm(reason)).Inc()
}
