// file: internal/server/asset_handlers.go
// version: 1.0.0
// guid: 8d3b6f20-5e1a-4c97-a2f4-0b9e7c1d5a68

package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jdfalk/asset-store/internal/aggregator"
	"github.com/jdfalk/asset-store/internal/models"
)

// Cookies a browser client may set to use its own provider keys.
const (
	UnsplashKeyCookie = "unsplash_api_key"
	PexelsKeyCookie   = "pexels_api_key"
)

var keyCookies = map[models.ProviderName]string{
	models.ProviderUnsplash: UnsplashKeyCookie,
	models.ProviderPexels:   PexelsKeyCookie,
}

// aggregatorFor returns an aggregator that prefers keys sent as cookies.
// Without cookies the shared instance is used as is.
func (s *Server) aggregatorFor(c *gin.Context) *aggregator.Aggregator {
	keys := make(map[models.ProviderName]string)
	for name, cookie := range keyCookies {
		if v, err := c.Cookie(cookie); err == nil && strings.TrimSpace(v) != "" {
			keys[name] = strings.TrimSpace(v)
		}
	}
	if len(keys) == 0 {
		return s.agg
	}
	return s.agg.WithCredentials(aggregator.StaticCredentials(keys))
}

// parseSearchRequest reads search parameters and the asset type. Missing
// type and page size fall back to the stored preferences.
func (s *Server) parseSearchRequest(c *gin.Context) (models.AssetSearchParams, models.AssetType, bool) {
	prefs := s.agg.GetConfig()

	assetType := prefs.DefaultAssetType
	if raw := ParseQueryString(c, "type"); raw != "" {
		t, ok := models.ParseAssetType(raw)
		if !ok {
			RespondWithValidationError(c, "type", "unknown asset type "+raw)
			return models.AssetSearchParams{}, "", false
		}
		assetType = t
	}

	page, ok := ParseQueryInt(c, "page", 1)
	if !ok {
		RespondWithValidationError(c, "page", "must be a number")
		return models.AssetSearchParams{}, "", false
	}
	perPageKey := "per_page"
	if c.Query(perPageKey) == "" {
		perPageKey = "perPage"
	}
	perPage, ok := ParseQueryInt(c, perPageKey, prefs.ResultsPerPage)
	if !ok {
		RespondWithValidationError(c, "per_page", "must be a number")
		return models.AssetSearchParams{}, "", false
	}

	params := models.AssetSearchParams{
		Query:       ParseQueryString(c, "q", "query"),
		Page:        page,
		PerPage:     perPage,
		Orientation: ParseQueryString(c, "orientation"),
		Color:       ParseQueryString(c, "color"),
		SortBy:      ParseQueryString(c, "sort_by", "sortBy"),
	}
	if params.PerPage < 1 {
		params.PerPage = models.DefaultPerPage
	}
	params = params.Normalized()

	if err := ValidateSearchParams(params); err != nil {
		respondValidation(c, err)
		return models.AssetSearchParams{}, "", false
	}
	return params, assetType, true
}

func respondValidation(c *gin.Context, err error) {
	var ve ValidationError
	if errors.As(err, &ve) {
		RespondWithError(c, http.StatusBadRequest, ve.Message, ve.Code)
		return
	}
	RespondWithBadRequest(c, err.Error())
}

// searchAssets handles GET /api/v1/assets/search. Provider failures are
// reported in the body, never as an HTTP error.
func (s *Server) searchAssets(c *gin.Context) {
	params, assetType, ok := s.parseSearchRequest(c)
	if !ok {
		return
	}
	resp := s.aggregatorFor(c).SearchAssets(c.Request.Context(), params, assetType)
	c.JSON(http.StatusOK, resp)
}

// featuredAssets handles GET /api/v1/assets/featured.
func (s *Server) featuredAssets(c *gin.Context) {
	params, assetType, ok := s.parseSearchRequest(c)
	if !ok {
		return
	}
	resp := s.aggregatorFor(c).GetFeaturedAssets(c.Request.Context(), params, assetType)
	c.JSON(http.StatusOK, resp)
}

// listCategories handles GET /api/v1/assets/categories.
func (s *Server) listCategories(c *gin.Context) {
	assetType := s.agg.GetConfig().DefaultAssetType
	if raw := ParseQueryString(c, "type"); raw != "" {
		t, ok := models.ParseAssetType(raw)
		if !ok {
			RespondWithValidationError(c, "type", "unknown asset type "+raw)
			return
		}
		assetType = t
	}
	c.JSON(http.StatusOK, CategoriesResponse{
		Success:    true,
		Type:       assetType,
		Categories: s.agg.GetCategories(assetType),
	})
}

// validateKeys handles POST /api/v1/assets/validate. Keys sent as cookies
// are validated instead of the stored ones.
func (s *Server) validateKeys(c *gin.Context) {
	results := s.aggregatorFor(c).ValidateAPIKeys(c.Request.Context())
	c.JSON(http.StatusOK, ValidationResponse{Success: true, Results: results})
}

// getConfig handles GET /api/v1/assets/config. Keys are masked.
func (s *Server) getConfig(c *gin.Context) {
	RespondWithOK(c, NewConfigView(s.agg.GetConfig()))
}

// updateConfig handles PUT /api/v1/assets/config with a partial update.
func (s *Server) updateConfig(c *gin.Context) {
	var update models.AssetStoreConfigUpdate
	if HandleBindError(c, c.ShouldBindJSON(&update)) {
		return
	}
	if err := ValidateConfigUpdate(update); err != nil {
		respondValidation(c, err)
		return
	}

	cfg, err := s.agg.UpdateConfig(c.Request.Context(), update)
	if err != nil {
		// The new settings are live but will not survive a restart.
		RespondWithInternalError(c, err.Error())
		return
	}
	RespondWithOK(c, NewConfigView(cfg))
}
