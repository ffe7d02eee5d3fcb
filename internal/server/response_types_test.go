// file: internal/server/response_types_test.go
// version: 2.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package server

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/asset-store/internal/models"
)

func TestNewConfigView_MasksKeys(t *testing.T) {
	cfg := models.DefaultAssetStoreConfig()
	cfg.Providers[models.ProviderUnsplash] = models.AssetProviderConfig{Enabled: true, APIKey: "abcdefghijkl", RateLimit: 50}
	cfg.Providers[models.ProviderPexels] = models.AssetProviderConfig{APIKey: "short", RateLimit: 200}

	view := NewConfigView(cfg)
	assert.Equal(t, ProviderConfigView{Enabled: true, APIKey: "abc****ijkl", HasKey: true, RateLimit: 50}, view.Providers[models.ProviderUnsplash])
	assert.Equal(t, "****", view.Providers[models.ProviderPexels].APIKey)
	assert.Equal(t, models.AssetTypePhoto, view.DefaultAssetType)

	data, err := json.Marshal(view)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "abcdefghijkl")
	assert.NotContains(t, string(data), "short")
}

func TestNewConfigView_EmptyKey(t *testing.T) {
	view := NewConfigView(models.DefaultAssetStoreConfig())
	for _, name := range models.KnownProviders {
		assert.Equal(t, "", view.Providers[name].APIKey)
		assert.False(t, view.Providers[name].HasKey)
	}
}
