// file: internal/config/persistence.go
// version: 2.0.0
// guid: 9c8d7e6f-5a4b-3c2d-1e0f-9a8b7c6d5e4f

package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jdfalk/asset-store/internal/database"
	"github.com/jdfalk/asset-store/internal/models"
)

// AssetStoreSettingKey is the fixed settings key for the provider config.
const AssetStoreSettingKey = "asset_store_config"

// AssetStoreRepository persists AssetStoreConfig as one JSON setting.
// The document holds API keys, so it is stored as a secret whenever
// encryption is available.
type AssetStoreRepository struct {
	store database.Store
}

// NewAssetStoreRepository wraps store.
func NewAssetStoreRepository(store database.Store) *AssetStoreRepository {
	return &AssetStoreRepository{store: store}
}

// Load returns the saved config. found is false when nothing is stored.
func (r *AssetStoreRepository) Load(ctx context.Context) (models.AssetStoreConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return models.AssetStoreConfig{}, false, err
	}
	raw, err := database.GetDecryptedSetting(r.store, AssetStoreSettingKey)
	if errors.Is(err, database.ErrSettingNotFound) {
		return models.AssetStoreConfig{}, false, nil
	}
	if err != nil {
		return models.AssetStoreConfig{}, false, fmt.Errorf("failed to read %s: %w", AssetStoreSettingKey, err)
	}

	var cfg models.AssetStoreConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return models.AssetStoreConfig{}, false, fmt.Errorf("failed to decode %s: %w", AssetStoreSettingKey, err)
	}
	return cfg, true, nil
}

// Save writes cfg, replacing any previous value.
func (r *AssetStoreRepository) Save(ctx context.Context, cfg models.AssetStoreConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", AssetStoreSettingKey, err)
	}
	return r.store.SetSetting(AssetStoreSettingKey, string(data), "json", database.EncryptionEnabled())
}

// Delete removes the saved config.
func (r *AssetStoreRepository) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.DeleteSetting(AssetStoreSettingKey)
}

// LoadAssetFile reads provider settings from a YAML file. Missing providers
// and rate limits are filled with defaults.
func LoadAssetFile(path string) (models.AssetStoreConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.AssetStoreConfig{}, fmt.Errorf("failed to read assets file: %w", err)
	}

	cfg := models.DefaultAssetStoreConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return models.AssetStoreConfig{}, fmt.Errorf("failed to parse assets file %s: %w", path, err)
	}
	for name := range cfg.Providers {
		if !models.IsKnownProvider(name) {
			return models.AssetStoreConfig{}, fmt.Errorf("assets file %s: unknown provider %q", path, name)
		}
	}
	return cfg.WithDefaults(), nil
}

// SaveAssetFile writes cfg as YAML. Secrets are stored in plaintext here;
// file permissions protect them.
func SaveAssetFile(path string, cfg models.AssetStoreConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal assets config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	// Write with restrictive permissions since it may contain secrets
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write assets file: %w", err)
	}
	return nil
}
