// file: internal/provider/unsplash.go
// version: 1.0.0
// guid: b2c3d4e5-f6a7-8b9c-0d1e-f2a3b4c5d6e7

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jdfalk/asset-store/internal/models"
)

// UnsplashMaxPerPage is Unsplash's documented page-size ceiling.
const UnsplashMaxPerPage = 30

// UnsplashProvider fetches photos from the Unsplash API.
// Auth uses the "Client-ID <access key>" scheme.
type UnsplashProvider struct {
	BaseProvider
}

// NewUnsplashProvider creates an Unsplash adapter. UNSPLASH_BASE_URL
// overrides the API host.
func NewUnsplashProvider(cfg models.AssetProviderConfig, opts ...Option) *UnsplashProvider {
	return &UnsplashProvider{
		BaseProvider: newBaseProvider(
			models.ProviderUnsplash,
			titleCase(string(models.ProviderUnsplash)),
			cfg,
			envBaseURL("UNSPLASH_BASE_URL", "https://api.unsplash.com"),
			func(req *http.Request, key string) {
				req.Header.Set("Authorization", "Client-ID "+key)
				req.Header.Set("Accept-Version", "v1")
			},
			opts,
		),
	}
}

type unsplashPhoto struct {
	ID             string `json:"id"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Color          string `json:"color"`
	Description    string `json:"description"`
	AltDescription string `json:"alt_description"`
	URLs           struct {
		Raw     string `json:"raw"`
		Full    string `json:"full"`
		Regular string `json:"regular"`
		Small   string `json:"small"`
		Thumb   string `json:"thumb"`
	} `json:"urls"`
	Links struct {
		HTML     string `json:"html"`
		Download string `json:"download"`
	} `json:"links"`
	User struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Links    struct {
			HTML string `json:"html"`
		} `json:"links"`
	} `json:"user"`
	Tags []struct {
		Title string `json:"title"`
	} `json:"tags"`
}

type unsplashSearchResponse struct {
	Total      int             `json:"total"`
	TotalPages int             `json:"total_pages"`
	Results    []unsplashPhoto `json:"results"`
}

var unsplashColors = map[string]bool{
	"black_and_white": true, "black": true, "white": true, "yellow": true, "orange": true,
	"red": true, "purple": true, "magenta": true, "green": true, "teal": true, "blue": true,
}

func (p unsplashPhoto) validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("missing id")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("photo %s has invalid dimensions %dx%d", p.ID, p.Width, p.Height)
	}
	if p.URLs.Regular == "" && p.URLs.Full == "" {
		return fmt.Errorf("photo %s has no image urls", p.ID)
	}
	return nil
}

// SearchAssets runs a free-text photo search.
func (c *UnsplashProvider) SearchAssets(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error) {
	params = params.Normalized()
	perPage := clampPerPage(params.PerPage, UnsplashMaxPerPage)

	q := url.Values{}
	q.Set("query", queryOrDefault(params.Query))
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("per_page", strconv.Itoa(perPage))
	if o := unsplashOrientation(params.Orientation); o != "" {
		q.Set("orientation", o)
	}
	if unsplashColors[strings.ToLower(params.Color)] {
		q.Set("color", strings.ToLower(params.Color))
	}
	if order := unsplashOrder(params.SortBy, false); order != "" {
		q.Set("order_by", order)
	}

	var raw unsplashSearchResponse
	if err := c.makeRequest(ctx, "/search/photos", q, DefaultMaxRetries, &raw); err != nil {
		return nil, err
	}

	return &models.AssetAPIResponse{
		Success: true,
		Data:    c.transformPhotos(raw.Results),
		Total:   raw.Total,
		Page:    params.Page,
		PerPage: perPage,
		HasMore: params.Page < raw.TotalPages,
	}, nil
}

// GetFeaturedAssets lists editorial photos. The endpoint returns a bare
// array, so the total is the number of items received.
func (c *UnsplashProvider) GetFeaturedAssets(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error) {
	params = params.Normalized()
	perPage := clampPerPage(params.PerPage, UnsplashMaxPerPage)

	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("order_by", unsplashOrder(params.SortBy, true))

	var raw []unsplashPhoto
	if err := c.makeRequest(ctx, "/photos", q, DefaultMaxRetries, &raw); err != nil {
		return nil, err
	}

	data := c.transformPhotos(raw)
	return &models.AssetAPIResponse{
		Success: true,
		Data:    data,
		Total:   len(raw),
		Page:    params.Page,
		PerPage: perPage,
		HasMore: len(raw) == perPage,
	}, nil
}

// unsplashOrder maps a sort onto order_by. Search understands relevant and
// latest; the editorial listing understands latest, oldest, and popular.
// Sorts the endpoint cannot express fall back to its default.
func unsplashOrder(sortBy string, listing bool) string {
	switch sortBy {
	case "latest":
		return "latest"
	case "relevance", "relevant":
		if !listing {
			return "relevant"
		}
	case "oldest":
		if listing {
			return "oldest"
		}
	}
	if listing {
		return "popular"
	}
	return ""
}

// GetCategories returns the static category vocabulary.
func (c *UnsplashProvider) GetCategories() []string {
	return Categories()
}

// ValidateAPIKey performs one minimal request without retries.
func (c *UnsplashProvider) ValidateAPIKey(ctx context.Context) bool {
	q := url.Values{}
	q.Set("per_page", "1")
	var raw []unsplashPhoto
	if err := c.makeRequest(ctx, "/photos", q, 0, &raw); err != nil {
		c.log.Debug().Err(err).Msg("api key validation failed")
		return false
	}
	return true
}

func (c *UnsplashProvider) transformPhotos(items []unsplashPhoto) []models.Asset {
	out := make([]models.Asset, 0, len(items))
	for _, item := range items {
		if err := item.validate(); err != nil {
			c.log.Debug().Err(err).Msg("skipping malformed photo")
			continue
		}
		out = append(out, c.transformPhoto(item))
	}
	return out
}

func (c *UnsplashProvider) transformPhoto(p unsplashPhoto) models.Asset {
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		if title := strings.TrimSpace(t.Title); title != "" {
			tags = append(tags, title)
		}
	}
	author := firstNonEmpty(p.User.Name, p.User.Username)
	name := firstNonEmpty(p.Description, p.AltDescription, "Unsplash photo "+p.ID)

	return models.Asset{
		ID:        string(models.ProviderUnsplash) + "_" + p.ID,
		Type:      models.AssetTypePhoto,
		Name:      name,
		Category:  deriveCategory(append([]string{p.Description, p.AltDescription}, tags...)...),
		URL:       firstNonEmpty(p.URLs.Regular, p.URLs.Full),
		Thumbnail: firstNonEmpty(p.URLs.Small, p.URLs.Thumb, p.URLs.Regular, p.URLs.Full),
		Tags:      tags,
		Provider:  models.ProviderUnsplash,
		Metadata: &models.AssetMetadata{
			Width:       p.Width,
			Height:      p.Height,
			Format:      "jpg",
			Attribution: attribution("photo", author, c.displayName),
			License:     "Unsplash License",
			Author:      author,
			AuthorURL:   p.User.Links.HTML,
			DownloadURL: firstNonEmpty(p.URLs.Full, p.URLs.Raw, p.URLs.Regular),
			Color:       p.Color,
			Orientation: models.OrientationFor(p.Width, p.Height),
		},
	}
}

func unsplashOrientation(o string) string {
	switch o {
	case string(models.OrientationLandscape), string(models.OrientationPortrait):
		return o
	case string(models.OrientationSquare), "squarish":
		return "squarish"
	default:
		return ""
	}
}

var _ AssetProvider = (*UnsplashProvider)(nil)
