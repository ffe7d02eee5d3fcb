// file: internal/localassets/catalog.go
// version: 1.0.0
// guid: 3b7e1f92-6a4c-4d08-b5e3-9c2f8a1d7e46

// Package localassets serves the built-in shape, frame, and icon library.
// Nothing here touches the network.
package localassets

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/asset-store/internal/models"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// DefaultBaseURL is the static root local asset URLs are built under.
const DefaultBaseURL = "/static/assets"

// Item is one catalog entry as stored in YAML.
type Item struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Tags     []string `yaml:"tags"`
}

type catalogFile struct {
	Shapes []Item `yaml:"shapes"`
	Frames []Item `yaml:"frames"`
	Icons  []Item `yaml:"icons"`
}

// Catalog is an immutable, in-memory set of local assets keyed by type.
type Catalog struct {
	baseURL string
	items   map[models.AssetType][]Item
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Parse(builtinCatalog, DefaultBaseURL)
		if err != nil {
			panic(fmt.Sprintf("localassets: builtin catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadFile reads a catalog from a YAML file on disk.
func LoadFile(path, baseURL string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data, baseURL)
}

// Parse decodes a YAML catalog. Entries without an id or name are rejected.
func Parse(data []byte, baseURL string) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	c := &Catalog{
		baseURL: strings.TrimRight(baseURL, "/"),
		items: map[models.AssetType][]Item{
			models.AssetTypeShape: f.Shapes,
			models.AssetTypeFrame: f.Frames,
			models.AssetTypeIcon:  f.Icons,
		},
	}
	for t, items := range c.items {
		seen := make(map[string]struct{}, len(items))
		for i, it := range items {
			if strings.TrimSpace(it.ID) == "" || strings.TrimSpace(it.Name) == "" {
				return nil, fmt.Errorf("%s entry %d: id and name are required", t, i)
			}
			if _, dup := seen[it.ID]; dup {
				return nil, fmt.Errorf("%s entry %q is duplicated", t, it.ID)
			}
			seen[it.ID] = struct{}{}
		}
	}
	return c, nil
}

// WithBaseURL returns a catalog sharing c's entries whose URLs are built
// under baseURL.
func (c *Catalog) WithBaseURL(baseURL string) *Catalog {
	return &Catalog{baseURL: strings.TrimRight(baseURL, "/"), items: c.items}
}

// Len returns the number of entries of type t.
func (c *Catalog) Len(t models.AssetType) int {
	return len(c.items[t])
}

// Search filters entries of type t by a fuzzy match of the query against
// name, category, and tags. Closer matches sort first; an empty query lists
// everything in catalog order.
func (c *Catalog) Search(params models.AssetSearchParams, t models.AssetType) *models.AssetAPIResponse {
	params = params.Normalized()
	items := c.items[t]
	terms := strings.Fields(strings.ToLower(params.Query))
	if len(terms) == 0 {
		return c.page(params, t, items)
	}

	type scored struct {
		item  Item
		score int
		index int
	}
	var matches []scored
	for i, it := range items {
		total := 0
		ok := true
		for _, term := range terms {
			d, hit := bestDistance(term, it)
			if !hit {
				ok = false
				break
			}
			total += d
		}
		if ok {
			matches = append(matches, scored{item: it, score: total, index: i})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score < matches[j].score
		}
		return matches[i].index < matches[j].index
	})

	ranked := make([]Item, len(matches))
	for i, m := range matches {
		ranked[i] = m.item
	}
	return c.page(params, t, ranked)
}

// Featured lists every entry of type t.
func (c *Catalog) Featured(params models.AssetSearchParams, t models.AssetType) *models.AssetAPIResponse {
	return c.page(params.Normalized(), t, c.items[t])
}

// Categories returns the sorted, distinct categories of type t.
func (c *Catalog) Categories(t models.AssetType) []string {
	set := make(map[string]struct{})
	for _, it := range c.items[t] {
		if it.Category != "" {
			set[it.Category] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func bestDistance(term string, it Item) (int, bool) {
	fields := append([]string{it.Name, it.Category, it.ID}, it.Tags...)
	ranks := fuzzy.RankFindNormalizedFold(term, fields)
	if len(ranks) == 0 {
		return 0, false
	}
	sort.Sort(ranks)
	return ranks[0].Distance, true
}

func (c *Catalog) page(params models.AssetSearchParams, t models.AssetType, items []Item) *models.AssetAPIResponse {
	resp := models.EmptyResponse(params)
	resp.Total = len(items)

	// Compare page numbers before multiplying; huge pages would overflow.
	pages := len(items) / params.PerPage
	if len(items)%params.PerPage != 0 {
		pages++
	}
	if params.Page-1 >= pages {
		return resp
	}
	start := (params.Page - 1) * params.PerPage
	end := len(items)
	if end-start > params.PerPage {
		end = start + params.PerPage
	}
	for _, it := range items[start:end] {
		resp.Data = append(resp.Data, c.toAsset(t, it))
	}
	resp.HasMore = end < len(items)
	return resp
}

func (c *Catalog) toAsset(t models.AssetType, it Item) models.Asset {
	url := fmt.Sprintf("%s/%ss/%s.svg", c.baseURL, t, it.ID)
	tags := it.Tags
	if tags == nil {
		tags = []string{}
	}
	return models.Asset{
		ID:        fmt.Sprintf("%s_%s_%s", models.ProviderLocal, t, it.ID),
		Type:      t,
		Name:      it.Name,
		Category:  it.Category,
		URL:       url,
		Thumbnail: url,
		Tags:      tags,
		Provider:  models.ProviderLocal,
	}
}
