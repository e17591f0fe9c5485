package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Response cache
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashman_cache_requests_total",
		Help: "Catalog requests served by the response cache.",
	}, []string{"result"}) // result: hit, miss, error

	// Image pipeline
	AssetFetches = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "flashman_asset_fetches_total",
		Help: "Image requests by kind and outcome.",
	}, []string{"kind", "status"}) // status: local, fetched, attached, failed

	AssetFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "flashman_asset_fetch_duration_seconds",
		Help:    "Duration of image downloads in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	AssetsInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flashman_assets_inflight",
		Help: "Image downloads currently in flight.",
	})

	// Collection
	CollectionSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "flashman_collection_size",
		Help: "Number of games in the local collection.",
	})
)

// RecordAssetFetch records the time taken by one image download.
func RecordAssetFetch(kind string, start time.Time) {
	AssetFetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

// Handler returns the HTTP handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
