// file: internal/provider/provider.go
// version: 1.0.0
// guid: a1b2c3d4-e5f6-7a8b-9c0d-e1f2a3b4c5d6

package provider

import (
	"context"

	"github.com/jdfalk/asset-store/internal/models"
)

// AssetProvider is the capability set every stock-media adapter exposes.
// Callers must check IsEnabled before any network operation; adapters fail
// fast with ErrProviderDisabled otherwise.
type AssetProvider interface {
	Name() models.ProviderName
	IsEnabled() bool
	SearchAssets(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error)
	GetFeaturedAssets(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error)
	GetCategories() []string
	ValidateAPIKey(ctx context.Context) bool
}

// VideoProvider is implemented by adapters that can also list videos.
type VideoProvider interface {
	AssetProvider
	SearchVideos(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error)
	GetPopularVideos(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error)
}

// New builds the adapter for name. It returns nil for unknown providers.
func New(name models.ProviderName, cfg models.AssetProviderConfig, opts ...Option) AssetProvider {
	switch name {
	case models.ProviderUnsplash:
		return NewUnsplashProvider(cfg, opts...)
	case models.ProviderPexels:
		return NewPexelsProvider(cfg, opts...)
	default:
		return nil
	}
}
