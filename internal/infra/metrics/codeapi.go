package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func init() { register(codeAPICalls, codeAPILatencyMs) }

var codeAPICalls = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "code_api_calls_total",
		Help: "Calls to the remote activation code API by operation and outcome.",
	},
	[]string{"op", "outcome"}, // outcome: ok|unauthorized|status|transport|decode
)

var codeAPILatencyMs = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "code_api_latency_ms",
		Help:    "Remote code API round trip latency in milliseconds.",
		Buckets: []float64{5, 10, 25, 50, 100, 200, 400, 800, 1600, 3000},
	},
	[]string{"op"},
)

func ObserveCodeAPICall(op, outcome string, elapsed time.Duration) {
	codeAPICalls.WithLabelValues(norm(op), norm(outcome)).Inc()
	codeAPILatencyMs.WithLabelValues(norm(op)).Observe(float64(elapsed.Milliseconds()))
}
