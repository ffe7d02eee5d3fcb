// file: cmd/config_cmd.go
// version: 1.0.0
// guid: 7e3a9c51-2b6d-4f08-94c1-d8e5a2f7b630

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/logger"
	"github.com/jdfalk/asset-store/internal/models"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect and change stored provider settings",
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings with keys masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), config.AppConfig, log)
			if err != nil {
				return err
			}
			defer a.Close()
			return writeYAML(cmd, maskConfig(a.agg.GetConfig()))
		},
	}

	configSetCmd = &cobra.Command{
		Use:   "set",
		Short: "Change stored settings",
		Long: `Change stored settings. Only the flags given are applied.

  asset-store config set --provider unsplash --enable --api-key XXXX
  asset-store config set --disable-store
  asset-store config set --default-type video --per-page 30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			update, err := updateFromFlags(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), config.AppConfig, log)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.agg.UpdateConfig(cmd.Context(), update)
			if err != nil {
				return err
			}
			return writeYAML(cmd, maskConfig(cfg))
		},
	}

	configExportCmd = &cobra.Command{
		Use:   "export [file]",
		Short: "Write the stored settings, including keys, to a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.AppConfig.AssetsFilePath()
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no export path given")
			}
			a, err := newApp(cmd.Context(), config.AppConfig, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := config.SaveAssetFile(path, a.agg.GetConfig()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported settings to %s\n", path)
			return nil
		},
	}

	configImportCmd = &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the stored settings with a YAML file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.AppConfig.AssetsFilePath()
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no import path given")
			}
			a, err := newApp(cmd.Context(), config.AppConfig, log)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := applyAssetsFile(cmd.Context(), a.agg, path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported settings from %s\n", path)
			return nil
		},
	}
)

func init() {
	addConfigSetFlags(configSetCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configExportCmd)
	configCmd.AddCommand(configImportCmd)
}

func addConfigSetFlags(c *cobra.Command) {
	f := c.Flags()
	f.String("provider", "", "provider the --enable, --disable, --api-key, and --rate-limit flags apply to")
	f.Bool("enable", false, "enable the provider")
	f.Bool("disable", false, "disable the provider")
	f.String("api-key", "", "provider API key (empty string clears it)")
	f.Int("rate-limit", 0, "provider requests per hour")
	f.Bool("enable-store", false, "turn the asset store on")
	f.Bool("disable-store", false, "turn the asset store off")
	f.String("default-type", "", "default asset type")
	f.Int("per-page", 0, "default results per page")
	f.Int("cache-minutes", -1, "client cache duration in minutes")
}

// updateFromFlags turns the changed set flags into a partial update.
func updateFromFlags(cmd *cobra.Command) (models.AssetStoreConfigUpdate, error) {
	f := cmd.Flags()
	var u models.AssetStoreConfigUpdate

	if f.Changed("enable-store") && f.Changed("disable-store") {
		return u, fmt.Errorf("--enable-store and --disable-store are mutually exclusive")
	}
	if f.Changed("enable-store") {
		v := true
		u.Enabled = &v
	}
	if f.Changed("disable-store") {
		v := false
		u.Enabled = &v
	}

	name, _ := f.GetString("provider")
	providerFlags := []string{"enable", "disable", "api-key", "rate-limit"}
	touched := false
	for _, fl := range providerFlags {
		touched = touched || f.Changed(fl)
	}
	if touched {
		pn := models.ProviderName(strings.ToLower(strings.TrimSpace(name)))
		if !models.IsKnownProvider(pn) {
			return u, fmt.Errorf("--provider must be one of unsplash, pexels")
		}
		if f.Changed("enable") && f.Changed("disable") {
			return u, fmt.Errorf("--enable and --disable are mutually exclusive")
		}
		var pu models.ProviderConfigUpdate
		if f.Changed("enable") {
			v := true
			pu.Enabled = &v
		}
		if f.Changed("disable") {
			v := false
			pu.Enabled = &v
		}
		if f.Changed("api-key") {
			v, _ := f.GetString("api-key")
			pu.APIKey = &v
		}
		if f.Changed("rate-limit") {
			v, _ := f.GetInt("rate-limit")
			if v <= 0 {
				return u, fmt.Errorf("--rate-limit must be positive")
			}
			pu.RateLimit = &v
		}
		u.Providers = map[models.ProviderName]models.ProviderConfigUpdate{pn: pu}
	}

	if f.Changed("default-type") {
		raw, _ := f.GetString("default-type")
		t, ok := models.ParseAssetType(raw)
		if !ok || strings.TrimSpace(raw) == "" {
			return u, fmt.Errorf("unknown asset type %q", raw)
		}
		u.DefaultAssetType = &t
	}
	if f.Changed("per-page") {
		v, _ := f.GetInt("per-page")
		if v <= 0 {
			return u, fmt.Errorf("--per-page must be positive")
		}
		u.ResultsPerPage = &v
	}
	if f.Changed("cache-minutes") {
		v, _ := f.GetInt("cache-minutes")
		if v < 0 {
			return u, fmt.Errorf("--cache-minutes must not be negative")
		}
		u.CacheDurationMinutes = &v
	}
	return u, nil
}

func maskConfig(cfg models.AssetStoreConfig) models.AssetStoreConfig {
	out := cfg.Clone()
	for name, pc := range out.Providers {
		pc.APIKey = logger.MaskSecret(pc.APIKey)
		out.Providers[name] = pc
	}
	return out
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
