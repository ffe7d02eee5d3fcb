// file: internal/models/config.go
// version: 1.0.0
// guid: 8b2e4d71-0c3a-4f6e-a915-2d7c8e1b4a90

package models

import "strings"

// AssetProviderConfig holds per-provider enablement and credentials.
// RateLimit is requests per hour and only paces requests.
type AssetProviderConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	APIKey    string `json:"apiKey" yaml:"api_key"`
	RateLimit int    `json:"rateLimit" yaml:"rate_limit"`
}

// HasKey reports whether a non-blank credential is present.
func (c AssetProviderConfig) HasKey() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// AssetStoreConfig is the persisted asset store settings document.
type AssetStoreConfig struct {
	Enabled   bool                                 `json:"enabled" yaml:"enabled"`
	Providers map[ProviderName]AssetProviderConfig `json:"providers" yaml:"providers"`

	// UI preferences persisted alongside provider settings.
	DefaultAssetType     AssetType `json:"defaultAssetType,omitempty" yaml:"default_asset_type,omitempty"`
	ResultsPerPage       int       `json:"resultsPerPage,omitempty" yaml:"results_per_page,omitempty"`
	CacheDurationMinutes int       `json:"cacheDurationMinutes,omitempty" yaml:"cache_duration_minutes,omitempty"`
}

// Default rate limits from each provider's free tier.
const (
	DefaultUnsplashRateLimit = 50
	DefaultPexelsRateLimit   = 200
)

// DefaultAssetStoreConfig returns the configuration used before anything is persisted.
func DefaultAssetStoreConfig() AssetStoreConfig {
	return AssetStoreConfig{
		Enabled: true,
		Providers: map[ProviderName]AssetProviderConfig{
			ProviderUnsplash: {RateLimit: DefaultUnsplashRateLimit},
			ProviderPexels:   {RateLimit: DefaultPexelsRateLimit},
		},
		DefaultAssetType: AssetTypePhoto,
		ResultsPerPage:   DefaultPerPage,
	}
}

// Provider returns the settings for name, or a zero (disabled) value.
func (c AssetStoreConfig) Provider(name ProviderName) AssetProviderConfig {
	if c.Providers == nil {
		return AssetProviderConfig{}
	}
	return c.Providers[name]
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (c AssetStoreConfig) Clone() AssetStoreConfig {
	out := c
	out.Providers = make(map[ProviderName]AssetProviderConfig, len(c.Providers))
	for k, v := range c.Providers {
		out.Providers[k] = v
	}
	return out
}

// WithDefaults fills in missing providers and rate limits.
func (c AssetStoreConfig) WithDefaults() AssetStoreConfig {
	out := c.Clone()
	defaults := DefaultAssetStoreConfig()
	for _, name := range KnownProviders {
		pc, ok := out.Providers[name]
		if !ok {
			out.Providers[name] = defaults.Providers[name]
			continue
		}
		if pc.RateLimit <= 0 {
			pc.RateLimit = defaults.Providers[name].RateLimit
			out.Providers[name] = pc
		}
	}
	if out.DefaultAssetType == "" {
		out.DefaultAssetType = AssetTypePhoto
	}
	if out.ResultsPerPage <= 0 {
		out.ResultsPerPage = DefaultPerPage
	}
	return out
}

// OverlayKeys returns a copy where every non-empty key from keys replaces the
// stored credential for that provider.
func (c AssetStoreConfig) OverlayKeys(keys func(ProviderName) string) AssetStoreConfig {
	out := c.Clone()
	if keys == nil {
		return out
	}
	for _, name := range KnownProviders {
		key := strings.TrimSpace(keys(name))
		if key == "" {
			continue
		}
		pc := out.Providers[name]
		pc.APIKey = key
		out.Providers[name] = pc
	}
	return out
}

// ProviderConfigUpdate is a partial update for one provider.
type ProviderConfigUpdate struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	APIKey    *string `json:"apiKey,omitempty"`
	RateLimit *int    `json:"rateLimit,omitempty"`
}

// AssetStoreConfigUpdate is a partial update; nil fields keep current values.
type AssetStoreConfigUpdate struct {
	Enabled              *bool                                 `json:"enabled,omitempty"`
	Providers            map[ProviderName]ProviderConfigUpdate `json:"providers,omitempty"`
	DefaultAssetType     *AssetType                            `json:"defaultAssetType,omitempty"`
	ResultsPerPage       *int                                  `json:"resultsPerPage,omitempty"`
	CacheDurationMinutes *int                                  `json:"cacheDurationMinutes,omitempty"`
}

// Merge applies u on top of c and returns the result. c is not modified.
func (c AssetStoreConfig) Merge(u AssetStoreConfigUpdate) AssetStoreConfig {
	out := c.Clone()
	if u.Enabled != nil {
		out.Enabled = *u.Enabled
	}
	for name, pu := range u.Providers {
		pc := out.Providers[name]
		if pu.Enabled != nil {
			pc.Enabled = *pu.Enabled
		}
		if pu.APIKey != nil {
			pc.APIKey = strings.TrimSpace(*pu.APIKey)
		}
		if pu.RateLimit != nil && *pu.RateLimit > 0 {
			pc.RateLimit = *pu.RateLimit
		}
		out.Providers[name] = pc
	}
	if u.DefaultAssetType != nil {
		out.DefaultAssetType = *u.DefaultAssetType
	}
	if u.ResultsPerPage != nil && *u.ResultsPerPage > 0 {
		out.ResultsPerPage = *u.ResultsPerPage
	}
	if u.CacheDurationMinutes != nil && *u.CacheDurationMinutes >= 0 {
		out.CacheDurationMinutes = *u.CacheDurationMinutes
	}
	return out
}

// IsKnownProvider reports whether name is a network provider.
func IsKnownProvider(name ProviderName) bool {
	for _, p := range KnownProviders {
		if p == name {
			return true
		}
	}
	return false
}

// AsUpdate expresses c as an update that overwrites every field.
func (c AssetStoreConfig) AsUpdate() AssetStoreConfigUpdate {
	enabled := c.Enabled
	assetType := c.DefaultAssetType
	perPage := c.ResultsPerPage
	cacheMinutes := c.CacheDurationMinutes
	u := AssetStoreConfigUpdate{
		Enabled:              &enabled,
		Providers:            make(map[ProviderName]ProviderConfigUpdate, len(c.Providers)),
		DefaultAssetType:     &assetType,
		ResultsPerPage:       &perPage,
		CacheDurationMinutes: &cacheMinutes,
	}
	for name, pc := range c.Providers {
		pcEnabled, key, limit := pc.Enabled, pc.APIKey, pc.RateLimit
		u.Providers[name] = ProviderConfigUpdate{Enabled: &pcEnabled, APIKey: &key, RateLimit: &limit}
	}
	return u
}
