// file: internal/server/response_types.go
// version: 2.0.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package server

import (
	"github.com/jdfalk/asset-store/internal/logger"
	"github.com/jdfalk/asset-store/internal/models"
)

// ProviderConfigView is a provider's settings with the key masked.
type ProviderConfigView struct {
	Enabled   bool   `json:"enabled"`
	APIKey    string `json:"apiKey"`
	HasKey    bool   `json:"hasKey"`
	RateLimit int    `json:"rateLimit"`
}

// ConfigView is the read model of the asset store settings.
type ConfigView struct {
	Enabled              bool                                        `json:"enabled"`
	Providers            map[models.ProviderName]ProviderConfigView `json:"providers"`
	DefaultAssetType     models.AssetType                            `json:"defaultAssetType"`
	ResultsPerPage       int                                         `json:"resultsPerPage"`
	CacheDurationMinutes int                                         `json:"cacheDurationMinutes"`
}

// NewConfigView masks every credential in cfg.
func NewConfigView(cfg models.AssetStoreConfig) ConfigView {
	view := ConfigView{
		Enabled:              cfg.Enabled,
		Providers:            make(map[models.ProviderName]ProviderConfigView, len(cfg.Providers)),
		DefaultAssetType:     cfg.DefaultAssetType,
		ResultsPerPage:       cfg.ResultsPerPage,
		CacheDurationMinutes: cfg.CacheDurationMinutes,
	}
	for name, pc := range cfg.Providers {
		view.Providers[name] = ProviderConfigView{
			Enabled:   pc.Enabled,
			APIKey:    logger.MaskSecret(pc.APIKey),
			HasKey:    pc.HasKey(),
			RateLimit: pc.RateLimit,
		}
	}
	return view
}

// CategoriesResponse lists categories for one asset type
type CategoriesResponse struct {
	Success    bool             `json:"success"`
	Type       models.AssetType `json:"type"`
	Categories []string         `json:"categories"`
}

// ValidationResponse reports per-provider key validity
type ValidationResponse struct {
	Success bool                          `json:"success"`
	Results map[models.ProviderName]bool `json:"results"`
}

// HealthResponse provides a consistent format for health check responses
type HealthResponse struct {
	Status           string                `json:"status"`
	Timestamp        int64                 `json:"timestamp"`
	Version          string                `json:"version"`
	Uptime           string                `json:"uptime"`
	DatabaseType     string                `json:"database_type"`
	AssetStore       bool                  `json:"asset_store_enabled"`
	EnabledProviders []models.ProviderName `json:"enabled_providers"`
}
