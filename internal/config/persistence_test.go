// file: internal/config/persistence_test.go
// version: 2.0.0
// guid: e4f5a6b7-c8d9-0e1f-2a3b-4c5d6e7f8a9b

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdfalk/asset-store/internal/database"
	"github.com/jdfalk/asset-store/internal/models"
)

func newTestStore(t *testing.T) database.Store {
	t.Helper()
	store, err := database.NewPebbleStore(filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleConfig() models.AssetStoreConfig {
	cfg := models.DefaultAssetStoreConfig()
	cfg.Providers[models.ProviderUnsplash] = models.AssetProviderConfig{Enabled: true, APIKey: "unsplash-secret-key", RateLimit: 50}
	return cfg
}

func TestAssetStoreRepository_NotFound(t *testing.T) {
	repo := NewAssetStoreRepository(newTestStore(t))
	_, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAssetStoreRepository_RoundTripPlain(t *testing.T) {
	require.NoError(t, database.SetEncryptionKey(nil))
	store := newTestStore(t)
	repo := NewAssetStoreRepository(store)

	require.NoError(t, repo.Save(context.Background(), sampleConfig()))
	got, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sampleConfig(), got)

	raw, err := store.GetSetting(AssetStoreSettingKey)
	require.NoError(t, err)
	assert.False(t, raw.IsSecret)
	assert.Equal(t, "json", raw.Type)
}

func TestAssetStoreRepository_RoundTripEncrypted(t *testing.T) {
	require.NoError(t, database.SetEncryptionKey(database.DeriveKeyFromPassword("pw")))
	t.Cleanup(func() { _ = database.SetEncryptionKey(nil) })

	store := newTestStore(t)
	repo := NewAssetStoreRepository(store)
	require.NoError(t, repo.Save(context.Background(), sampleConfig()))

	raw, err := store.GetSetting(AssetStoreSettingKey)
	require.NoError(t, err)
	assert.True(t, raw.IsSecret)
	assert.NotContains(t, raw.Value, "unsplash-secret-key")

	got, found, err := repo.Load(context.Background())
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "unsplash-secret-key", got.Provider(models.ProviderUnsplash).APIKey)

	require.NoError(t, repo.Delete(context.Background()))
	_, found, err = repo.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestAssetStoreRepository_CorruptValue(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SetSetting(AssetStoreSettingKey, "{not json", "json", false))
	_, _, err := NewAssetStoreRepository(store).Load(context.Background())
	assert.Error(t, err)
}

func TestAssetStoreRepository_CancelledContext(t *testing.T) {
	repo := NewAssetStoreRepository(newTestStore(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, repo.Save(ctx, sampleConfig()))
	_, _, err := repo.Load(ctx)
	assert.Error(t, err)
}

func TestAssetFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "assets.yaml")
	require.NoError(t, SaveAssetFile(path, sampleConfig()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "api_key: unsplash-secret-key"))

	got, err := LoadAssetFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleConfig(), got)
}

func TestLoadAssetFile_FillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
enabled: true
providers:
  pexels:
    enabled: true
    api_key: pk
`), 0o600))

	cfg, err := LoadAssetFile(path)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultPexelsRateLimit, cfg.Provider(models.ProviderPexels).RateLimit)
	assert.Equal(t, "pk", cfg.Provider(models.ProviderPexels).APIKey)
	assert.Equal(t, models.DefaultUnsplashRateLimit, cfg.Provider(models.ProviderUnsplash).RateLimit)
	assert.Equal(t, models.AssetTypePhoto, cfg.DefaultAssetType)
}

func TestLoadAssetFile_Errors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadAssetFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("providers: ["), 0o600))
	_, err = LoadAssetFile(bad)
	assert.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("providers:\n  flickr:\n    enabled: true\n"), 0o600))
	_, err = LoadAssetFile(unknown)
	assert.Error(t, err)
}
