package dispatch

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	combinationSearches *prometheus.CounterVec
	searchNodes         prometheus.Histogram
	computeLatency      *prometheus.HistogramVec
)

// Result labels of combinationSearches.
const (
	searchFound    = "found"
	searchNotFound = "not_found"
	searchBudget   = "budget_exceeded"
	searchCanceled = "canceled"
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Histogram, *prometheus.HistogramVec) {
	searches := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dispatch_combination_searches_total",
			Help: "Number of minimum-production combination searches by result",
		},
		[]string{"result"},
	)
	nodes := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dispatch_combination_search_nodes",
			Help:    "Subsets visited by a combination search",
			Buckets: prometheus.ExponentialBuckets(1, 10, 8),
		},
	)
	lat := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dispatch_compute_latency_seconds",
			Help:    "Latency of the merit-order computation",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		},
		[]string{"outcome"},
	)
	return searches, nodes, lat
}

func init() {
	combinationSearches, searchNodes, computeLatency = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers dispatch metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(combinationSearches, searchNodes, computeLatency)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	combinationSearches, searchNodes, computeLatency = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
