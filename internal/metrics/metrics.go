package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProviderFetches counts upstream metadata fetch attempts by
	// provider and outcome.
	ProviderFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "moviarr_provider_fetches_total",
		Help: "Upstream metadata fetch attempts.",
	}, []string{"provider", "outcome"})

	// CacheHits counts metadata cache lookups that found a record.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moviarr_metadata_cache_hits_total",
		Help: "Metadata cache lookups that hit.",
	})

	// CacheMisses counts metadata cache lookups that found nothing.
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moviarr_metadata_cache_misses_total",
		Help: "Metadata cache lookups that missed.",
	})

	// ResolveSkipped counts movies omitted from a resolution because
	// their fetch failed.
	ResolveSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "moviarr_resolve_skipped_total",
		Help: "Movies skipped during list resolution.",
	})
)
