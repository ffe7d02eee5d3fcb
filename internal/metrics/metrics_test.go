// file: internal/metrics/metrics_test.go
// version: 2.0.0
// guid: 7a8b9c0d-1e2f-3a4b-5c6d-7e8f9a0b1c2d

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegisterIsIdempotent(t *testing.T) {
	Register()
	Register()
}

func TestIncProviderRequest(t *testing.T) {
	before := testutil.ToFloat64(providerRequests.WithLabelValues("unsplash", "503"))
	IncProviderRequest("unsplash", 503)
	IncProviderRequest("unsplash", 503)
	after := testutil.ToFloat64(providerRequests.WithLabelValues("unsplash", "503"))
	assert.Equal(t, before+2, after)
}

func TestIncProviderRetry(t *testing.T) {
	before := testutil.ToFloat64(providerRetries.WithLabelValues("pexels"))
	IncProviderRetry("pexels")
	assert.Equal(t, before+1, testutil.ToFloat64(providerRetries.WithLabelValues("pexels")))
}

func TestIncProviderFailure(t *testing.T) {
	IncProviderFailure("pexels", "auth")
	assert.GreaterOrEqual(t, testutil.ToFloat64(providerFailures.WithLabelValues("pexels", "auth")), 1.0)
}

func TestSearchMetrics(t *testing.T) {
	IncSearch("photo", "degraded")
	ObserveSearchResults("photo", 12)
	ObserveProviderDuration("unsplash", 150*time.Millisecond)
	SetEnabledProviders(2)
	assert.Equal(t, 2.0, testutil.ToFloat64(enabledProviders))
}
