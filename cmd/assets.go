// file: cmd/assets.go
// version: 1.0.0
// guid: 5b8d2f63-1c4e-4a97-8e06-3f9a7b2d1c54

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/models"
)

var (
	searchCmd = &cobra.Command{
		Use:   "search [query...]",
		Short: "Search every enabled provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListing(cmd, strings.Join(args, " "), false)
		},
	}

	featuredCmd = &cobra.Command{
		Use:   "featured",
		Short: "List curated photos or popular videos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runListing(cmd, "", true)
		},
	}

	categoriesCmd = &cobra.Command{
		Use:   "categories",
		Short: "List browse categories for an asset type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig, log)
			if err != nil {
				return err
			}
			defer a.Close()

			assetType := a.agg.GetConfig().DefaultAssetType
			if cmd.Flags().Changed("type") {
				if assetType, err = assetTypeFlag(cmd); err != nil {
					return err
				}
			}

			for _, c := range a.agg.GetCategories(assetType) {
				fmt.Fprintln(cmd.OutOrStdout(), c)
			}
			return nil
		},
	}

	validateKeysCmd = &cobra.Command{
		Use:   "validate-keys",
		Short: "Check the API key of every enabled provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig, log)
			if err != nil {
				return err
			}
			defer a.Close()

			results := a.agg.ValidateAPIKeys(cmd.Context())
			printValidation(cmd.OutOrStdout(), results)
			for _, ok := range results {
				if !ok {
					return fmt.Errorf("one or more provider keys are invalid")
				}
			}
			return nil
		},
	}
)

func init() {
	for _, c := range []*cobra.Command{searchCmd, featuredCmd} {
		addTypeFlag(c)
		c.Flags().Int("page", 1, "page number")
		c.Flags().Int("per-page", 0, "results per provider (default from stored preferences)")
		c.Flags().String("orientation", "", "landscape, portrait, or square")
		c.Flags().String("color", "", "color filter (provider-specific)")
		c.Flags().String("sort", "", "relevance, latest, oldest, or popular (Unsplash only)")
		c.Flags().Bool("json", false, "print the raw response as JSON")
	}
	addTypeFlag(categoriesCmd)
}

func addTypeFlag(c *cobra.Command) {
	c.Flags().String("type", "", "asset type: photo, video, shape, frame, icon (default from stored preferences)")
}

// assetTypeFlag parses --type. An empty value means photo.
func assetTypeFlag(cmd *cobra.Command) (models.AssetType, error) {
	raw, _ := cmd.Flags().GetString("type")
	if strings.TrimSpace(raw) == "" {
		return models.AssetTypePhoto, nil
	}
	t, ok := models.ParseAssetType(raw)
	if !ok {
		return "", fmt.Errorf("unknown asset type %q", raw)
	}
	return t, nil
}

// searchParamsFromFlags builds search params, filling the page size from prefs.
func searchParamsFromFlags(cmd *cobra.Command, query string, prefs models.AssetStoreConfig) models.AssetSearchParams {
	page, _ := cmd.Flags().GetInt("page")
	perPage, _ := cmd.Flags().GetInt("per-page")
	orientation, _ := cmd.Flags().GetString("orientation")
	color, _ := cmd.Flags().GetString("color")
	sortBy, _ := cmd.Flags().GetString("sort")
	if perPage <= 0 {
		perPage = prefs.ResultsPerPage
	}
	return models.AssetSearchParams{
		Query:       query,
		Page:        page,
		PerPage:     perPage,
		Orientation: orientation,
		Color:       color,
		SortBy:      sortBy,
	}.Normalized()
}

func runListing(cmd *cobra.Command, query string, featured bool) error {
	a, err := newApp(cmd.Context(), config.AppConfig, log)
	if err != nil {
		return err
	}
	defer a.Close()

	prefs := a.agg.GetConfig()
	assetType := prefs.DefaultAssetType
	if cmd.Flags().Changed("type") {
		if assetType, err = assetTypeFlag(cmd); err != nil {
			return err
		}
	}
	params := searchParamsFromFlags(cmd, query, prefs)

	var resp *models.AssetAPIResponse
	if featured {
		resp = a.agg.GetFeaturedAssets(cmd.Context(), params, assetType)
	} else {
		resp = a.agg.SearchAssets(cmd.Context(), params, assetType)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	printResponse(cmd.OutOrStdout(), resp)
	if !resp.Success {
		return fmt.Errorf("search failed: %s", resp.Error)
	}
	return nil
}

func printResponse(w io.Writer, resp *models.AssetAPIResponse) {
	for _, asset := range resp.Data {
		fmt.Fprintf(w, "%-9s %-28s %s\n", asset.Provider, asset.ID, asset.Name)
		if asset.Metadata != nil {
			fmt.Fprintf(w, "          %dx%d %s  %s\n", asset.Metadata.Width, asset.Metadata.Height, asset.Metadata.Orientation, asset.Metadata.Attribution)
		}
		fmt.Fprintf(w, "          %s\n", asset.URL)
	}
	fmt.Fprintf(w, "page %d, %d shown, %d total", resp.Page, len(resp.Data), resp.Total)
	if resp.HasMore {
		fmt.Fprint(w, ", more available")
	}
	fmt.Fprintln(w)
	if resp.Error != "" {
		fmt.Fprintf(w, "warning: %s\n", resp.Error)
	}
}

func printValidation(w io.Writer, results map[models.ProviderName]bool) {
	if len(results) == 0 {
		fmt.Fprintln(w, "no providers enabled")
		return
	}
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, string(name))
	}
	sort.Strings(names)
	for _, name := range names {
		status := "invalid"
		if results[models.ProviderName(name)] {
			status = "ok"
		}
		fmt.Fprintf(w, "%-9s %s\n", name, status)
	}
}

func providerNames(names []models.ProviderName) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = string(n)
	}
	return out
}
