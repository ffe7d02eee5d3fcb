// file: internal/localassets/catalog_test.go
// version: 1.0.0
// guid: 8e2d4a71-5c9b-4f13-a6e8-1b7c3d9f0a52

package localassets

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/jdfalk/asset-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEveryType(t *testing.T) {
	c := Default()
	for _, typ := range []models.AssetType{models.AssetTypeShape, models.AssetTypeFrame, models.AssetTypeIcon} {
		assert.Greater(t, c.Len(typ), 0, "type %s", typ)
	}
	assert.Zero(t, c.Len(models.AssetTypePhoto))
}

func TestSearch_EmptyQueryPages(t *testing.T) {
	c := Default()
	total := c.Len(models.AssetTypeShape)

	resp := c.Search(models.AssetSearchParams{PerPage: 5}, models.AssetTypeShape)
	assert.True(t, resp.Success)
	assert.Equal(t, total, resp.Total)
	assert.Len(t, resp.Data, 5)
	assert.True(t, resp.HasMore)

	last := c.Search(models.AssetSearchParams{Page: 100, PerPage: 5}, models.AssetTypeShape)
	assert.Empty(t, last.Data)
	assert.False(t, last.HasMore)
}

func TestPage_HugeValuesDoNotOverflow(t *testing.T) {
	c := Default()
	total := c.Len(models.AssetTypeShape)

	tests := []models.AssetSearchParams{
		{Page: 1<<62 + 2, PerPage: 2},
		{Page: math.MaxInt, PerPage: math.MaxInt},
		{Page: 2, PerPage: math.MaxInt},
	}
	for _, p := range tests {
		var resp *models.AssetAPIResponse
		require.NotPanics(t, func() { resp = c.Featured(p, models.AssetTypeShape) })
		assert.True(t, resp.Success)
		assert.Empty(t, resp.Data)
		assert.False(t, resp.HasMore)
		assert.Equal(t, total, resp.Total)
	}

	all := c.Featured(models.AssetSearchParams{Page: 1, PerPage: math.MaxInt}, models.AssetTypeShape)
	assert.Len(t, all.Data, total)
	assert.False(t, all.HasMore)

	lastPage := (total + 1) / 2
	last := c.Featured(models.AssetSearchParams{Page: lastPage, PerPage: 2}, models.AssetTypeShape)
	assert.NotEmpty(t, last.Data)
	assert.False(t, last.HasMore)
}

func TestSearch_MatchesTagsAndRanksExactFirst(t *testing.T) {
	c := Default()
	resp := c.Search(models.AssetSearchParams{Query: "polygon"}, models.AssetTypeShape)
	require.NotEmpty(t, resp.Data)
	for _, a := range resp.Data {
		assert.Equal(t, models.ProviderLocal, a.Provider)
		assert.Equal(t, models.AssetTypeShape, a.Type)
	}

	resp = c.Search(models.AssetSearchParams{Query: "Star"}, models.AssetTypeShape)
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "local_shape_star", resp.Data[0].ID)
	assert.Equal(t, "/static/assets/shapes/star.svg", resp.Data[0].URL)
}

func TestSearch_AllTermsMustMatch(t *testing.T) {
	c := Default()
	resp := c.Search(models.AssetSearchParams{Query: "mockup phone"}, models.AssetTypeFrame)
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "local_frame_phone", resp.Data[0].ID)

	none := c.Search(models.AssetSearchParams{Query: "zzzz"}, models.AssetTypeIcon)
	assert.True(t, none.Success)
	assert.Empty(t, none.Data)
	assert.Zero(t, none.Total)
}

func TestCategories_SortedAndDistinct(t *testing.T) {
	cats := Default().Categories(models.AssetTypeIcon)
	require.NotEmpty(t, cats)
	assert.IsNonDecreasing(t, cats)
	seen := map[string]bool{}
	for _, c := range cats {
		assert.False(t, seen[c], "duplicate %s", c)
		seen[c] = true
	}
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("shapes: [{id: a}]"), "")
	assert.Error(t, err)

	_, err = Parse([]byte("shapes: [{id: a, name: A}, {id: a, name: B}]"), "")
	assert.Error(t, err)

	_, err = Parse([]byte("shapes: {"), "")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte("icons:\n  - {id: x, name: X, category: misc}\n"), 0o600))

	c, err := LoadFile(path, "https://cdn.example.com/")
	require.NoError(t, err)
	resp := c.Featured(models.AssetSearchParams{}, models.AssetTypeIcon)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "https://cdn.example.com/icons/x.svg", resp.Data[0].URL)
	assert.Equal(t, []string{}, resp.Data[0].Tags)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}

func TestWithBaseURL(t *testing.T) {
	c := Default().WithBaseURL("https://static.example.com/lib/")
	resp := c.Search(models.AssetSearchParams{Query: "star"}, models.AssetTypeShape)
	require.NotEmpty(t, resp.Data)
	assert.Equal(t, "https://static.example.com/lib/shapes/star.svg", resp.Data[0].URL)

	// The shared default is unchanged.
	assert.Equal(t, "/static/assets/shapes/star.svg", Default().Search(models.AssetSearchParams{Query: "star"}, models.AssetTypeShape).Data[0].URL)
}
