// Package services – domain metrics.
//
// HTTP-level metrics live in the middleware package; the counters here
// track pipeline outcomes that status codes alone cannot convey.
package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// cacheLookups counts listing cache hits and misses.
	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalogue_cache_lookups_total",
			Help: "Listing cache lookups by result.",
		},
		[]string{"result"}, // hit|miss
	)

	// classifyOutcomes counts how classification requests resolve.
	classifyOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "classify_outcomes_total",
			Help: "Classification flow outcomes.",
		},
		[]string{"outcome"}, // known|similar|accepted|rejected|upstream_error
	)
)

func init() {
	prometheus.MustRegister(cacheLookups, classifyOutcomes)
}
