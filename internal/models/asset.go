// file: internal/models/asset.go
// version: 1.0.0
// guid: 3f9a1c52-7d4e-4b8a-9e21-6c0d5b7a8f13

package models

import "strings"

// AssetType discriminates the kind of asset a caller is browsing.
type AssetType string

const (
	AssetTypePhoto AssetType = "photo"
	AssetTypeVideo AssetType = "video"
	AssetTypeShape AssetType = "shape"
	AssetTypeFrame AssetType = "frame"
	AssetTypeIcon  AssetType = "icon"
)

// IsRemote reports whether assets of this type come from network providers.
func (t AssetType) IsRemote() bool {
	return t == AssetTypePhoto || t == AssetTypeVideo
}

// ParseAssetType normalizes free-form input, defaulting to photo.
func ParseAssetType(s string) (AssetType, bool) {
	switch AssetType(strings.ToLower(strings.TrimSpace(s))) {
	case "", AssetTypePhoto:
		return AssetTypePhoto, true
	case AssetTypeVideo:
		return AssetTypeVideo, true
	case AssetTypeShape:
		return AssetTypeShape, true
	case AssetTypeFrame:
		return AssetTypeFrame, true
	case AssetTypeIcon:
		return AssetTypeIcon, true
	default:
		return AssetTypePhoto, false
	}
}

// ProviderName identifies an asset source.
type ProviderName string

const (
	ProviderUnsplash ProviderName = "unsplash"
	ProviderPexels   ProviderName = "pexels"
	ProviderLocal    ProviderName = "local"
)

// KnownProviders is the fixed enumeration order for network providers.
// Fan-out results are concatenated in this order.
var KnownProviders = []ProviderName{ProviderUnsplash, ProviderPexels}

// Orientation is always derived from pixel dimensions.
type Orientation string

const (
	OrientationLandscape Orientation = "landscape"
	OrientationPortrait  Orientation = "portrait"
	OrientationSquare    Orientation = "square"
)

// OrientationFor derives the orientation of a width x height image.
func OrientationFor(width, height int) Orientation {
	switch {
	case width > height:
		return OrientationLandscape
	case width < height:
		return OrientationPortrait
	default:
		return OrientationSquare
	}
}

// Asset is a normalized, provider-agnostic media item. Type is the
// discriminant: video assets carry Duration and VideoURL in their metadata.
type Asset struct {
	ID        string         `json:"id"`
	Type      AssetType      `json:"type"`
	Name      string         `json:"name"`
	Category  string         `json:"category"`
	URL       string         `json:"url"`
	Thumbnail string         `json:"thumbnail"`
	Tags      []string       `json:"tags"`
	Provider  ProviderName   `json:"provider"`
	Metadata  *AssetMetadata `json:"metadata,omitempty"`
}

// AssetMetadata holds attribution and media details for photos and videos.
type AssetMetadata struct {
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	Format      string      `json:"format"`
	Attribution string      `json:"attribution"`
	License     string      `json:"license"`
	Author      string      `json:"author"`
	AuthorURL   string      `json:"authorUrl"`
	DownloadURL string      `json:"downloadUrl"`
	Color       string      `json:"color,omitempty"`
	Orientation Orientation `json:"orientation"`

	Duration int    `json:"duration,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}

// IsVideo reports whether the asset is a video.
func (a Asset) IsVideo() bool {
	return a.Type == AssetTypeVideo
}

// AssetSearchParams are the caller-facing search options.
type AssetSearchParams struct {
	Query       string `json:"query,omitempty"`
	Page        int    `json:"page"`
	PerPage     int    `json:"perPage"`
	Orientation string `json:"orientation,omitempty"`
	Color       string `json:"color,omitempty"`
	SortBy      string `json:"sortBy,omitempty"`
}

// DefaultPerPage is used when a caller does not ask for a page size.
const DefaultPerPage = 20

// Normalized returns a copy with page and perPage defaulted and trimmed inputs.
func (p AssetSearchParams) Normalized() AssetSearchParams {
	out := p
	out.Query = strings.TrimSpace(out.Query)
	out.Orientation = strings.ToLower(strings.TrimSpace(out.Orientation))
	out.Color = strings.TrimSpace(out.Color)
	out.SortBy = strings.ToLower(strings.TrimSpace(out.SortBy))
	if out.Page < 1 {
		out.Page = 1
	}
	if out.PerPage < 1 {
		out.PerPage = DefaultPerPage
	}
	return out
}

// AssetAPIResponse is the merged result envelope. Total is advisory: providers
// count differently and the aggregator sums what each one reports.
type AssetAPIResponse struct {
	Success bool    `json:"success"`
	Data    []Asset `json:"data"`
	Total   int     `json:"total"`
	Page    int     `json:"page"`
	PerPage int     `json:"perPage"`
	HasMore bool    `json:"hasMore"`
	Error   string  `json:"error,omitempty"`
}

// EmptyResponse builds a response with no data for the given paging.
func EmptyResponse(params AssetSearchParams) *AssetAPIResponse {
	return &AssetAPIResponse{
		Success: true,
		Data:    []Asset{},
		Page:    params.Page,
		PerPage: params.PerPage,
	}
}

// FailedResponse builds an unsuccessful response carrying msg.
func FailedResponse(params AssetSearchParams, msg string) *AssetAPIResponse {
	resp := EmptyResponse(params)
	resp.Success = false
	resp.Error = msg
	return resp
}
