// file: internal/models/config_test.go
// version: 1.0.0
// guid: 0e7d3b19-9f4c-4a62-b8d5-3a1f7e6c2d04

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }
func intPtr(i int) *int          { return &i }

func TestDefaultAssetStoreConfig(t *testing.T) {
	cfg := DefaultAssetStoreConfig()
	assert.True(t, cfg.Enabled)
	assert.False(t, cfg.Provider(ProviderUnsplash).Enabled)
	assert.Equal(t, DefaultUnsplashRateLimit, cfg.Provider(ProviderUnsplash).RateLimit)
	assert.Equal(t, DefaultPexelsRateLimit, cfg.Provider(ProviderPexels).RateLimit)
}

func TestMergeDoesNotMutateReceiver(t *testing.T) {
	base := DefaultAssetStoreConfig()
	merged := base.Merge(AssetStoreConfigUpdate{
		Providers: map[ProviderName]ProviderConfigUpdate{
			ProviderPexels: {Enabled: boolPtr(true), APIKey: stringPtr(" key "), RateLimit: intPtr(100)},
		},
	})

	assert.False(t, base.Provider(ProviderPexels).Enabled)
	assert.Equal(t, "", base.Provider(ProviderPexels).APIKey)

	pc := merged.Provider(ProviderPexels)
	assert.True(t, pc.Enabled)
	assert.Equal(t, "key", pc.APIKey)
	assert.Equal(t, 100, pc.RateLimit)
	assert.Equal(t, base.Provider(ProviderUnsplash), merged.Provider(ProviderUnsplash))
}

func TestMergeIgnoresInvalidRateLimit(t *testing.T) {
	merged := DefaultAssetStoreConfig().Merge(AssetStoreConfigUpdate{
		Enabled: boolPtr(false),
		Providers: map[ProviderName]ProviderConfigUpdate{
			ProviderUnsplash: {RateLimit: intPtr(0)},
		},
	})
	assert.False(t, merged.Enabled)
	assert.Equal(t, DefaultUnsplashRateLimit, merged.Provider(ProviderUnsplash).RateLimit)
}

func TestOverlayKeys(t *testing.T) {
	cfg := DefaultAssetStoreConfig()
	cfg.Providers[ProviderUnsplash] = AssetProviderConfig{Enabled: true, APIKey: "stored", RateLimit: 50}

	out := cfg.OverlayKeys(func(name ProviderName) string {
		if name == ProviderUnsplash {
			return "cookie"
		}
		return ""
	})
	assert.Equal(t, "cookie", out.Provider(ProviderUnsplash).APIKey)
	assert.Equal(t, "stored", cfg.Provider(ProviderUnsplash).APIKey)
	assert.Equal(t, "", out.Provider(ProviderPexels).APIKey)
}

func TestWithDefaultsFillsMissingProviders(t *testing.T) {
	cfg := AssetStoreConfig{Enabled: true}
	out := cfg.WithDefaults()
	assert.Len(t, out.Providers, len(KnownProviders))
	assert.Equal(t, DefaultPexelsRateLimit, out.Provider(ProviderPexels).RateLimit)
	assert.Equal(t, AssetTypePhoto, out.DefaultAssetType)
}

func TestAsUpdateRoundTrips(t *testing.T) {
	src := DefaultAssetStoreConfig()
	src.Enabled = false
	src.Providers[ProviderPexels] = AssetProviderConfig{Enabled: true, APIKey: "pk", RateLimit: 10}
	src.ResultsPerPage = 40

	var empty AssetStoreConfig
	got := empty.Merge(src.AsUpdate())
	assert.Equal(t, src, got)

	// The update must not alias src.
	*got.AsUpdate().Enabled = true
	assert.False(t, src.Enabled)
}
