package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Label values for RemoteRequests.
const (
	EndpointListing = "listing"
	EndpointRaw     = "raw"

	OutcomeOK        = "ok"
	OutcomeStatus    = "status"
	OutcomeTransport = "transport"
	OutcomeMalformed = "malformed"
)

var (
	// Using promauto to automatically register metrics with the default registry
	RemoteRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gistsearch_remote_requests_total",
			Help: "Total number of requests sent to the gist service",
		},
		[]string{"endpoint", "outcome"},
	)

	Searches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gistsearch_searches_total",
			Help: "Total number of searches by status",
		},
		[]string{"status"},
	)

	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "gistsearch_search_duration_seconds",
			Help:    "Duration of complete searches",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	GistsScanned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gistsearch_gists_scanned_total",
			Help: "Total number of gists inspected by searches",
		},
	)

	Matches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gistsearch_matches_total",
			Help: "Total number of matching gists returned",
		},
	)
)
