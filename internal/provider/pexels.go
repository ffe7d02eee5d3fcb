// file: internal/provider/pexels.go
// version: 1.0.0
// guid: e7e02554-8931-49ba-9528-d3d51279da1d

package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/jdfalk/asset-store/internal/models"
)

// PexelsMaxPerPage is Pexels' documented page-size ceiling.
const PexelsMaxPerPage = 80

// PexelsProvider fetches photos and videos from the Pexels API.
// The key is sent verbatim in the Authorization header.
type PexelsProvider struct {
	BaseProvider
}

// NewPexelsProvider creates a Pexels adapter. PEXELS_BASE_URL overrides the
// API host.
func NewPexelsProvider(cfg models.AssetProviderConfig, opts ...Option) *PexelsProvider {
	return &PexelsProvider{
		BaseProvider: newBaseProvider(
			models.ProviderPexels,
			titleCase(string(models.ProviderPexels)),
			cfg,
			envBaseURL("PEXELS_BASE_URL", "https://api.pexels.com"),
			func(req *http.Request, key string) {
				req.Header.Set("Authorization", key)
			},
			opts,
		),
	}
}

type pexelsPage struct {
	Page         int    `json:"page"`
	PerPage      int    `json:"per_page"`
	TotalResults int    `json:"total_results"`
	NextPage     string `json:"next_page"`
}

type pexelsPhotoPage struct {
	pexelsPage
	Photos []pexelsPhoto `json:"photos"`
}

type pexelsVideoPage struct {
	pexelsPage
	Videos []pexelsVideo `json:"videos"`
}

type pexelsPhoto struct {
	ID              int64  `json:"id"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	URL             string `json:"url"`
	Photographer    string `json:"photographer"`
	PhotographerURL string `json:"photographer_url"`
	AvgColor        string `json:"avg_color"`
	Alt             string `json:"alt"`
	Src             struct {
		Original  string `json:"original"`
		Large2x   string `json:"large2x"`
		Large     string `json:"large"`
		Medium    string `json:"medium"`
		Small     string `json:"small"`
		Portrait  string `json:"portrait"`
		Landscape string `json:"landscape"`
		Tiny      string `json:"tiny"`
	} `json:"src"`
}

type pexelsVideo struct {
	ID       int64  `json:"id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Duration int    `json:"duration"`
	URL      string `json:"url"`
	Image    string `json:"image"`
	User     struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	} `json:"user"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsVideoFile struct {
	ID       int64  `json:"id"`
	Quality  string `json:"quality"`
	FileType string `json:"file_type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Link     string `json:"link"`
}

func (p pexelsPhoto) validate() error {
	if p.ID <= 0 {
		return errors.New("missing id")
	}
	if p.Width <= 0 || p.Height <= 0 {
		return fmt.Errorf("photo %d has invalid dimensions %dx%d", p.ID, p.Width, p.Height)
	}
	if p.Src.Large == "" && p.Src.Original == "" {
		return fmt.Errorf("photo %d has no image urls", p.ID)
	}
	return nil
}

func (v pexelsVideo) validate() error {
	if v.ID <= 0 {
		return errors.New("missing id")
	}
	if v.Width <= 0 || v.Height <= 0 {
		return fmt.Errorf("video %d has invalid dimensions %dx%d", v.ID, v.Width, v.Height)
	}
	if len(v.VideoFiles) == 0 {
		return fmt.Errorf("video %d has no renditions", v.ID)
	}
	return nil
}

// SearchAssets runs a free-text photo search.
func (c *PexelsProvider) SearchAssets(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error) {
	params = params.Normalized()
	q := c.searchValues(params, true)

	var raw pexelsPhotoPage
	if err := c.makeRequest(ctx, "/v1/search", q, DefaultMaxRetries, &raw); err != nil {
		return nil, err
	}
	return c.photoResponse(params, raw), nil
}

// GetFeaturedAssets lists Pexels' curated photos.
func (c *PexelsProvider) GetFeaturedAssets(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error) {
	params = params.Normalized()
	q := c.pageValues(params)

	var raw pexelsPhotoPage
	if err := c.makeRequest(ctx, "/v1/curated", q, DefaultMaxRetries, &raw); err != nil {
		return nil, err
	}
	return c.photoResponse(params, raw), nil
}

// SearchVideos runs a free-text video search.
func (c *PexelsProvider) SearchVideos(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error) {
	params = params.Normalized()
	q := c.searchValues(params, false)

	var raw pexelsVideoPage
	if err := c.makeRequest(ctx, "/videos/search", q, DefaultMaxRetries, &raw); err != nil {
		return nil, err
	}
	return c.videoResponse(params, raw), nil
}

// GetPopularVideos lists popular videos.
func (c *PexelsProvider) GetPopularVideos(ctx context.Context, params models.AssetSearchParams) (*models.AssetAPIResponse, error) {
	params = params.Normalized()
	q := c.pageValues(params)

	var raw pexelsVideoPage
	if err := c.makeRequest(ctx, "/videos/popular", q, DefaultMaxRetries, &raw); err != nil {
		return nil, err
	}
	return c.videoResponse(params, raw), nil
}

// GetCategories returns the static category vocabulary.
func (c *PexelsProvider) GetCategories() []string {
	return Categories()
}

// ValidateAPIKey performs one minimal request without retries.
func (c *PexelsProvider) ValidateAPIKey(ctx context.Context) bool {
	q := url.Values{}
	q.Set("per_page", "1")
	var raw pexelsPhotoPage
	if err := c.makeRequest(ctx, "/v1/curated", q, 0, &raw); err != nil {
		c.log.Debug().Err(err).Msg("api key validation failed")
		return false
	}
	return true
}

func (c *PexelsProvider) pageValues(params models.AssetSearchParams) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(params.Page))
	q.Set("per_page", strconv.Itoa(clampPerPage(params.PerPage, PexelsMaxPerPage)))
	return q
}

func (c *PexelsProvider) searchValues(params models.AssetSearchParams, photos bool) url.Values {
	q := c.pageValues(params)
	q.Set("query", queryOrDefault(params.Query))
	switch params.Orientation {
	case string(models.OrientationLandscape), string(models.OrientationPortrait), string(models.OrientationSquare):
		q.Set("orientation", params.Orientation)
	}
	// Pexels only filters photos by color.
	if photos && params.Color != "" {
		q.Set("color", strings.ToLower(params.Color))
	}
	return q
}

func (c *PexelsProvider) photoResponse(params models.AssetSearchParams, raw pexelsPhotoPage) *models.AssetAPIResponse {
	data := make([]models.Asset, 0, len(raw.Photos))
	for _, item := range raw.Photos {
		if err := item.validate(); err != nil {
			c.log.Debug().Err(err).Msg("skipping malformed photo")
			continue
		}
		data = append(data, c.transformPhoto(item))
	}
	return c.envelope(params, raw.pexelsPage, data)
}

func (c *PexelsProvider) videoResponse(params models.AssetSearchParams, raw pexelsVideoPage) *models.AssetAPIResponse {
	data := make([]models.Asset, 0, len(raw.Videos))
	for _, item := range raw.Videos {
		if err := item.validate(); err != nil {
			c.log.Debug().Err(err).Msg("skipping malformed video")
			continue
		}
		data = append(data, c.transformVideo(item))
	}
	return c.envelope(params, raw.pexelsPage, data)
}

// envelope collapses Pexels paging: an explicit total and a next_page link
// whose presence means more results exist.
func (c *PexelsProvider) envelope(params models.AssetSearchParams, page pexelsPage, data []models.Asset) *models.AssetAPIResponse {
	perPage := page.PerPage
	if perPage <= 0 {
		perPage = clampPerPage(params.PerPage, PexelsMaxPerPage)
	}
	current := page.Page
	if current <= 0 {
		current = params.Page
	}
	return &models.AssetAPIResponse{
		Success: true,
		Data:    data,
		Total:   page.TotalResults,
		Page:    current,
		PerPage: perPage,
		HasMore: strings.TrimSpace(page.NextPage) != "",
	}
}

func (c *PexelsProvider) transformPhoto(p pexelsPhoto) models.Asset {
	id := strconv.FormatInt(p.ID, 10)
	tags := tagsFromText(p.Alt, 5)
	return models.Asset{
		ID:        string(models.ProviderPexels) + "_" + id,
		Type:      models.AssetTypePhoto,
		Name:      firstNonEmpty(p.Alt, "Pexels photo "+id),
		Category:  deriveCategory(p.Alt, slugText(p.URL)),
		URL:       firstNonEmpty(p.Src.Large, p.Src.Original),
		Thumbnail: firstNonEmpty(p.Src.Medium, p.Src.Small, p.Src.Tiny, p.Src.Large),
		Tags:      tags,
		Provider:  models.ProviderPexels,
		Metadata: &models.AssetMetadata{
			Width:       p.Width,
			Height:      p.Height,
			Format:      "jpeg",
			Attribution: attribution("photo", p.Photographer, c.displayName),
			License:     "Pexels License",
			Author:      p.Photographer,
			AuthorURL:   p.PhotographerURL,
			DownloadURL: firstNonEmpty(p.Src.Original, p.Src.Large2x, p.Src.Large),
			Color:       p.AvgColor,
			Orientation: models.OrientationFor(p.Width, p.Height),
		},
	}
}

func (c *PexelsProvider) transformVideo(v pexelsVideo) models.Asset {
	id := strconv.FormatInt(v.ID, 10)
	file := selectRendition(v.VideoFiles)
	title := slugText(v.URL)
	return models.Asset{
		ID:        string(models.ProviderPexels) + "_video_" + id,
		Type:      models.AssetTypeVideo,
		Name:      firstNonEmpty(title, "Pexels video "+id),
		Category:  deriveCategory(title),
		URL:       file.Link,
		Thumbnail: v.Image,
		Tags:      tagsFromText(title, 5),
		Provider:  models.ProviderPexels,
		Metadata: &models.AssetMetadata{
			Width:       v.Width,
			Height:      v.Height,
			Format:      formatFromMIME(file.FileType, "mp4"),
			Attribution: attribution("video", v.User.Name, c.displayName),
			License:     "Pexels License",
			Author:      v.User.Name,
			AuthorURL:   v.User.URL,
			DownloadURL: file.Link,
			Orientation: models.OrientationFor(v.Width, v.Height),
			Duration:    v.Duration,
			VideoURL:    file.Link,
		},
	}
}

// selectRendition picks the HD encoding, falling back to the first one.
// Callers guarantee files is non-empty.
func selectRendition(files []pexelsVideoFile) pexelsVideoFile {
	for _, f := range files {
		if strings.EqualFold(f.Quality, "hd") && f.Link != "" {
			return f
		}
	}
	return files[0]
}

// slugText turns ".../video/aerial-view-of-beach-1234/" into
// "aerial view of beach".
func slugText(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	slug := path.Base(strings.TrimRight(u.Path, "/"))
	if slug == "." || slug == "/" {
		return ""
	}
	parts := strings.Split(slug, "-")
	if len(parts) > 1 && isNumeric(parts[len(parts)-1]) {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 1 && isNumeric(parts[0]) {
		return ""
	}
	return strings.Join(parts, " ")
}

var _ VideoProvider = (*PexelsProvider)(nil)
