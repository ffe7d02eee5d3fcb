// file: cmd/app.go
// version: 1.0.0
// guid: 2f6c8e14-9a3b-4d57-b1e0-7c4d2a9f5e83

package cmd

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/jdfalk/asset-store/internal/aggregator"
	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/database"
	"github.com/jdfalk/asset-store/internal/localassets"
	"github.com/jdfalk/asset-store/internal/provider"
)

// app bundles what most commands need: the settings store, the repository
// over it, and an aggregator loaded from it.
type app struct {
	store database.Store
	repo  *config.AssetStoreRepository
	agg   *aggregator.Aggregator
}

// Close releases the settings store.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close settings store")
		}
	}
}

// openStore opens the configured settings backend.
func openStore(cfg config.Config) (database.Store, error) {
	if cfg.DatabaseType == database.BackendRedis {
		return database.NewRedisStore(database.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
	}
	return database.Open(cfg.DatabaseType, cfg.StoreTarget())
}

// localCatalog returns the configured local asset catalog.
func localCatalog(cfg config.Config) (*localassets.Catalog, error) {
	if cfg.CatalogFile != "" {
		return localassets.LoadFile(cfg.CatalogFile, cfg.StaticBaseURL)
	}
	if cfg.StaticBaseURL != "" && cfg.StaticBaseURL != localassets.DefaultBaseURL {
		return localassets.Default().WithBaseURL(cfg.StaticBaseURL), nil
	}
	return localassets.Default(), nil
}

// newApp opens the store, enables settings encryption, and builds the
// aggregator. Environment keys take precedence over stored ones.
func newApp(ctx context.Context, cfg config.Config, logger zerolog.Logger) (*app, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings store: %w", err)
	}
	a := &app{store: store, repo: config.NewAssetStoreRepository(store)}

	if cfg.EncryptConfig {
		if err := database.InitEncryption(cfg.DataDir); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to initialize encryption: %w", err)
		}
	}

	catalog, err := localCatalog(cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	timeout := cfg.ProviderTimeout
	if timeout <= 0 {
		timeout = provider.DefaultTimeout
	}
	a.agg, err = aggregator.New(ctx, aggregator.Options{
		Store:       a.repo,
		Credentials: aggregator.EnvCredentials(),
		HTTPClient:  &http.Client{Timeout: timeout},
		Logger:      logger,
		Local:       catalog,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
