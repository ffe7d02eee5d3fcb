// file: cmd/export.go
// version: 1.0.0
// guid: 4d9b1e73-8c2a-4f06-b5d3-a17e6c0f2b98

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/models"
)

var exportCmd = &cobra.Command{
	Use:   "export [query...]",
	Short: "Page through results and write them as JSON lines",
	Long: `Page through search results (or the featured listing when no query is
given) and write one JSON asset per line. Paging stops early once no
provider reports more results.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		query := strings.Join(args, " ")
		params := searchParamsFromFlags(cmd, query, prefs)
		pages, _ := cmd.Flags().GetInt("pages")

		fetch := func(ctx context.Context, p models.AssetSearchParams) *models.AssetAPIResponse {
			return a.agg.SearchAssets(ctx, p, assetType)
		}
		if strings.TrimSpace(query) == "" {
			fetch = func(ctx context.Context, p models.AssetSearchParams) *models.AssetAPIResponse {
				return a.agg.GetFeaturedAssets(ctx, p, assetType)
			}
		}

		path, _ := cmd.Flags().GetString("out")
		written, err := writeOutput(path, cmd.OutOrStdout(), func(w io.Writer) (int, error) {
			return exportPages(cmd.Context(), fetch, params, pages, w, cmd.ErrOrStderr())
		})
		if err != nil {
			return err
		}
		log.Info().Int("assets", written).Str("type", string(assetType)).Msg("export finished")
		return nil
	},
}

func init() {
	addTypeFlag(exportCmd)
	exportCmd.Flags().Int("page", 1, "first page to export")
	exportCmd.Flags().Int("pages", 5, "maximum number of pages to fetch")
	exportCmd.Flags().Int("per-page", 0, "results per provider (default from stored preferences)")
	exportCmd.Flags().String("orientation", "", "landscape, portrait, or square")
	exportCmd.Flags().String("color", "", "color filter (provider-specific)")
	exportCmd.Flags().String("sort", "", "relevance, latest, oldest, or popular (Unsplash only)")
	exportCmd.Flags().String("out", "", "output file (default stdout)")
}

// writeOutput runs write against path, or against stdout when path is empty
// or "-". A file that fails to close is reported as a failed export.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) (int, error)) (int, error) {
	if path == "" || path == "-" {
		return write(stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	n, err := write(f)
	return n, closeOutput(f, err)
}

// closeOutput closes c and returns the close error unless err is already set.
func closeOutput(c io.Closer, err error) error {
	if cerr := c.Close(); cerr != nil && err == nil {
		return fmt.Errorf("failed to close output: %w", cerr)
	}
	return err
}

type pageFetcher func(ctx context.Context, params models.AssetSearchParams) *models.AssetAPIResponse

// exportPages fetches up to pages pages starting at params.Page and writes
// every asset as one JSON line to w. Progress goes to progress.
func exportPages(ctx context.Context, fetch pageFetcher, params models.AssetSearchParams, pages int, w, progress io.Writer) (int, error) {
	if pages <= 0 {
		return 0, fmt.Errorf("--pages must be positive")
	}

	bar := progressbar.NewOptions(pages,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("exporting"),
		progressbar.OptionShowCount(),
	)
	defer bar.Finish()

	enc := json.NewEncoder(w)
	written := 0
	for i := 0; i < pages; i++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		resp := fetch(ctx, params)
		if !resp.Success && len(resp.Data) == 0 {
			return written, fmt.Errorf("page %d failed: %s", params.Page, resp.Error)
		}
		if resp.Error != "" {
			log.Warn().Int("page", params.Page).Str("error", resp.Error).Msg("partial page")
		}
		for _, asset := range resp.Data {
			if err := enc.Encode(asset); err != nil {
				return written, err
			}
			written++
		}
		_ = bar.Add(1)
		if !resp.HasMore || len(resp.Data) == 0 {
			break
		}
		params.Page++
	}
	return written, nil
}
