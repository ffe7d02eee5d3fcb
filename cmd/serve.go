// file: cmd/serve.go
// version: 1.0.0
// guid: 9c1e4b27-6d8a-4f35-a0b2-5e7d3c1f8a46

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/asset-store/internal/aggregator"
	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/metrics"
	"github.com/jdfalk/asset-store/internal/server"
	"github.com/jdfalk/asset-store/internal/watcher"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API serving asset search, featured listings, categories,
key validation, and runtime configuration.

With --watch, edits to the assets file are applied without a restart.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.AppConfig
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		metrics.Register()
		log.Info().
			Str("database", cfg.DatabaseType).
			Strs("providers", providerNames(a.agg.EnabledProviders())).
			Msg("asset store ready")

		if cfg.WatchAssets {
			path := cfg.AssetsFilePath()
			if err := applyAssetsFile(ctx, a.agg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				log.Warn().Err(err).Str("path", path).Msg("assets file not applied")
			}
			w := watcher.New(func(p string) {
				if err := applyAssetsFile(ctx, a.agg, p); err != nil {
					log.Error().Err(err).Str("path", p).Msg("failed to reload assets file")
				}
			}, 0, log)
			if err := w.Start(path); err != nil {
				return fmt.Errorf("failed to watch assets file: %w", err)
			}
			defer w.Stop()
		}

		return server.NewServer(a.agg, cfg, log).Start(ctx)
	},
}

// applyAssetsFile loads a YAML provider settings file and applies it as a
// full update, persisting the result.
func applyAssetsFile(ctx context.Context, agg *aggregator.Aggregator, path string) error {
	fileCfg, err := config.LoadAssetFile(path)
	if err != nil {
		return err
	}
	applied, err := agg.UpdateConfig(ctx, fileCfg.AsUpdate())
	if err != nil {
		return err
	}
	log.Info().
		Str("path", path).
		Bool("enabled", applied.Enabled).
		Strs("providers", providerNames(agg.EnabledProviders())).
		Msg("applied assets file")
	return nil
}

func init() {
	serveCmd.Flags().Int("port", 8484, "port to run the web server on")
	serveCmd.Flags().String("host", "localhost", "host to bind the web server to")
	serveCmd.Flags().Duration("read-timeout", 0, "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().Duration("write-timeout", 0, "write timeout (e.g. 30s, 1m)")
	serveCmd.Flags().Duration("idle-timeout", 0, "idle timeout (e.g. 60s, 2m)")
	serveCmd.Flags().Bool("watch", false, "reload provider settings when the assets file changes")
	serveCmd.Flags().String("assets-file", "", "YAML provider settings file (default assets.yaml next to the database)")
	serveCmd.Flags().Int("rate-limit", 0, "API requests per minute per client")

	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	_ = viper.BindPFlag("read_timeout", serveCmd.Flags().Lookup("read-timeout"))
	_ = viper.BindPFlag("write_timeout", serveCmd.Flags().Lookup("write-timeout"))
	_ = viper.BindPFlag("idle_timeout", serveCmd.Flags().Lookup("idle-timeout"))
	_ = viper.BindPFlag("watch_assets", serveCmd.Flags().Lookup("watch"))
	_ = viper.BindPFlag("assets_file", serveCmd.Flags().Lookup("assets-file"))
	_ = viper.BindPFlag("rate_limit_per_minute", serveCmd.Flags().Lookup("rate-limit"))
}
