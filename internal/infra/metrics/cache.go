package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(cacheRequestsTotal, cacheInstallsTotal) }

var cacheRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "offline_cache_requests_total",
		Help: "Offline cache lookups by cache name and result.",
	},
	[]string{"cache", "result"}, // result="hit"|"miss"
)

var cacheInstallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "offline_cache_installs_total",
		Help: "Offline cache install attempts by cache name and outcome.",
	},
	[]string{"cache", "outcome"},
)

func IncCacheRequest(cacheName, result string) {
	cacheRequestsTotal.WithLabelValues(norm(cacheName), norm(result)).Inc()
}

func IncCacheInstall(cacheName, outcome string) {
	cacheInstallsTotal.WithLabelValues(norm(cacheName), norm(outcome)).Inc()
}
