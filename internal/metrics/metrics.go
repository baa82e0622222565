package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Pipeline and provider metrics
var (
	SubtitleSearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_searches_total",
			Help: "Total number of subtitle searches.",
		},
		[]string{"status"},
	)

	SubtitleDownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_downloads_total",
			Help: "Total number of subtitle downloads.",
		},
		[]string{"status"},
	)

	SubtitleExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subtitle_extractions_total",
			Help: "Total number of timing-range text extractions.",
		},
		[]string{"status"},
	)

	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_requests_total",
			Help: "Total number of requests to external providers.",
		},
		[]string{"provider", "outcome"},
	)

	TokenRefreshesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "token_refreshes_total",
			Help: "Total number of provider token login exchanges.",
		},
		[]string{"provider"},
	)

	MappingFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mapping_fallbacks_total",
			Help: "Total number of id-mapping lookups that fell back to the alternate provider.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		SubtitleSearchesTotal,
		SubtitleDownloadsTotal,
		SubtitleExtractionsTotal,
		ProviderRequestsTotal,
		TokenRefreshesTotal,
		MappingFallbacksTotal,
	)
}

// RecordProviderRequest tracks one external call's outcome ("success" or
// "error") for the named provider.
func RecordProviderRequest(provider string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	ProviderRequestsTotal.WithLabelValues(provider, outcome).Inc()
}
