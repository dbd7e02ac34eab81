package search

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_searches_total",
			Help: "Catalog searches by outcome (inactive, empty, matched).",
		},
		[]string{"outcome"},
	)

	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_search_duration_seconds",
			Help:    "Time spent evaluating a catalog query.",
			Buckets: []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025, .05},
		},
	)

	searchResults = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catalog_search_results",
			Help:    "Number of projects returned by active searches.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		},
	)

	catalogProjects = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_projects",
			Help: "Projects in the published catalog snapshot.",
		},
	)
)

func init() {
	prometheus.MustRegister(searchesTotal, searchDuration, searchResults, catalogProjects)
}

func outcome(active bool, total int) string {
	switch {
	case !active:
		return "inactive"
	case total == 0:
		return "empty"
	default:
		return "matched"
	}
}
