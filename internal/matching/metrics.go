package matching

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	matchRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_match_requests_total",
			Help: "Total number of match discovery requests",
		},
		[]string{"outcome"},
	)

	statsRequestsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_stats_requests_total",
			Help: "Total number of match statistics requests",
		},
	)

	nearbySearchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "matching_nearby_searches_total",
			Help: "Total number of nearby dog searches",
		},
	)

	compatibilityScores = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "matching_compatibility_scores",
			Help:    "Distribution of compatibility scores returned to callers",
			Buckets: prometheus.LinearBuckets(-50, 20, 11),
		},
	)

	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matching_cache_lookups_total",
			Help: "Match result cache lookups by result",
		},
		[]string{"result"},
	)
)

func RecordMatchRequest(outcome string) {
	matchRequestsTotal.WithLabelValues(outcome).Inc()
}

func RecordStatsRequest() {
	statsRequestsTotal.Inc()
}

func RecordNearbySearch() {
	nearbySearchesTotal.Inc()
}

func RecordCompatibilityScore(score int) {
	compatibilityScores.Observe(float64(score))
}

func RecordCacheLookup(result string) {
	cacheLookupsTotal.WithLabelValues(result).Inc()
}
