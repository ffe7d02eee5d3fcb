// file: internal/metrics/metrics.go
// version: 2.0.0
// guid: 9f8e7d6c-5b4a-3210-9fed-cba876543210

package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	providerRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asset_store",
		Name:      "provider_requests_total",
		Help:      "Outbound provider requests by provider and HTTP status (0 for network errors)",
	}, []string{"provider", "status"})
	providerRetries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asset_store",
		Name:      "provider_retries_total",
		Help:      "Retries issued after a retryable provider failure",
	}, []string{"provider"})
	providerFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asset_store",
		Name:      "provider_failures_total",
		Help:      "Terminal provider failures by provider and error kind",
	}, []string{"provider", "kind"})
	providerDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "asset_store",
		Name:      "provider_request_duration_seconds",
		Help:      "Histogram of provider request durations including retries",
		Buckets:   prometheus.ExponentialBuckets(0.05, 1.6, 10),
	}, []string{"provider"})

	searches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "asset_store",
		Name:      "searches_total",
		Help:      "Aggregated searches by asset type and outcome (ok, degraded, failed, disabled)",
	}, []string{"asset_type", "outcome"})
	searchResults = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "asset_store",
		Name:      "search_result_items",
		Help:      "Number of items returned per aggregated search",
		Buckets:   []float64{0, 5, 10, 20, 40, 80, 160},
	}, []string{"asset_type"})
	enabledProviders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "asset_store",
		Name:      "enabled_providers",
		Help:      "Current number of enabled network providers",
	})
)

// Register initializes metrics with the global Prometheus registry (idempotent)
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(providerRequests, providerRetries, providerFailures, providerDuration,
			searches, searchResults, enabledProviders)
	})
}

// Provider request helpers
func IncProviderRequest(provider string, status int) {
	providerRequests.WithLabelValues(provider, strconv.Itoa(status)).Inc()
}
func IncProviderRetry(provider string) { providerRetries.WithLabelValues(provider).Inc() }
func IncProviderFailure(provider, kind string) {
	providerFailures.WithLabelValues(provider, kind).Inc()
}
func ObserveProviderDuration(provider string, d time.Duration) {
	providerDuration.WithLabelValues(provider).Observe(d.Seconds())
}

// Aggregator helpers
func IncSearch(assetType, outcome string) { searches.WithLabelValues(assetType, outcome).Inc() }
func ObserveSearchResults(assetType string, n int) {
	searchResults.WithLabelValues(assetType).Observe(float64(n))
}
func SetEnabledProviders(n int) { enabledProviders.Set(float64(n)) }
