// file: cmd/diagnostics.go
// version: 2.0.0
// guid: c8f6a0d4-2a8b-48cf-9d08-02cc9915d9fc

package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/pebble/v2"
	"github.com/spf13/cobra"

	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/database"
	"github.com/jdfalk/asset-store/internal/server/middleware"
)

var (
	diagnosticsCmd = &cobra.Command{
		Use:   "diagnostics",
		Short: "Debugging and maintenance helpers",
		Long:  "Diagnostic utilities for inspecting and resetting the settings store.",
	}

	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "List stored settings with secrets masked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")
			limit, _ := cmd.Flags().GetInt("limit")
			if raw {
				prefix, _ := cmd.Flags().GetString("prefix")
				if config.AppConfig.DatabaseType != database.BackendPebble {
					return fmt.Errorf("raw inspection is only available for Pebble databases")
				}
				return runRawPebbleQuery(cmd.OutOrStdout(), config.AppConfig.DatabasePath, limit, prefix)
			}

			store, err := openStore(config.AppConfig)
			if err != nil {
				return err
			}
			defer store.Close()
			return listSettings(cmd.OutOrStdout(), store, limit)
		},
	}

	resetCmd = &cobra.Command{
		Use:   "reset",
		Short: "Delete every stored setting",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("yes")
			dryRun, _ := cmd.Flags().GetBool("dry-run")

			store, err := openStore(config.AppConfig)
			if err != nil {
				return err
			}
			defer store.Close()

			if !force && !dryRun {
				ok, err := promptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(), "Delete all stored settings")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			return resetSettings(cmd.OutOrStdout(), store, dryRun)
		},
	}

	hashPasswordCmd = &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for basic_auth_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := middleware.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
)

func init() {
	settingsCmd.Flags().Int("limit", 50, "Number of records to display")
	settingsCmd.Flags().String("prefix", "setting:", "Key prefix to inspect when --raw is set")
	settingsCmd.Flags().Bool("raw", false, "Show raw Pebble key/value data (Pebble only)")

	resetCmd.Flags().Bool("yes", false, "Skip confirmation prompt")
	resetCmd.Flags().Bool("dry-run", false, "List settings without deleting")

	diagnosticsCmd.AddCommand(settingsCmd)
	diagnosticsCmd.AddCommand(resetCmd)
	diagnosticsCmd.AddCommand(hashPasswordCmd)
}

func listSettings(w io.Writer, store database.Store, limit int) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}
	settings, err := store.GetAllSettings()
	if err != nil {
		return fmt.Errorf("failed to fetch settings: %w", err)
	}
	if len(settings) == 0 {
		fmt.Fprintln(w, "No settings found.")
		return nil
	}

	for i, s := range settings {
		if i >= limit {
			fmt.Fprintf(w, "... %d more\n", len(settings)-limit)
			break
		}
		secret := ""
		if s.IsSecret {
			secret = " (secret)"
		}
		fmt.Fprintf(w, "%-40s %-6s %s%s\n", s.Key, s.Type, truncateString(s.Value, 80), secret)
	}
	return nil
}

func resetSettings(w io.Writer, store database.Store, dryRun bool) error {
	settings, err := store.GetAllSettings()
	if err != nil {
		return fmt.Errorf("failed to fetch settings: %w", err)
	}
	for _, s := range settings {
		if dryRun {
			fmt.Fprintf(w, "would delete %s\n", s.Key)
			continue
		}
		if err := store.DeleteSetting(s.Key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.Key, err)
		}
	}
	if !dryRun {
		fmt.Fprintf(w, "Deleted %d settings.\n", len(settings))
	}
	return nil
}

func runRawPebbleQuery(w io.Writer, path string, limit int, prefix string) error {
	if limit <= 0 {
		return errors.New("limit must be positive")
	}
	db, err := pebble.Open(path, &pebble.Options{
		FormatMajorVersion: pebble.FormatNewest,
		ReadOnly:           true,
	})
	if err != nil {
		return fmt.Errorf("failed to open Pebble database: %w", err)
	}
	defer db.Close()

	iterOpts := &pebble.IterOptions{}
	if prefix != "" {
		iterOpts.LowerBound = []byte(prefix)
		iterOpts.UpperBound = append([]byte(prefix), 0xFF)
	}

	iter, err := db.NewIter(iterOpts)
	if err != nil {
		return fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	count := 0
	for ok := iter.First(); ok && iter.Valid(); ok = iter.Next() {
		val := iter.Value()
		fmt.Fprintf(w, "Key: %s\n", string(iter.Key()))
		fmt.Fprintf(w, "Value length: %d bytes\n", len(val))
		fmt.Fprintf(w, "Value preview: %s\n", truncateString(string(val), 500))
		fmt.Fprintln(w, "---")

		count++
		if count >= limit {
			break
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("iterator error: %w", err)
	}
	if count == 0 {
		fmt.Fprintln(w, "No keys matched the requested prefix.")
	}
	return nil
}

func promptYesNo(in io.Reader, out io.Writer, action string) (bool, error) {
	fmt.Fprintf(out, "%s? Type 'yes' to confirm: ", action)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "yes", nil
}

func truncateString(in string, max int) string {
	if len(in) <= max {
		return in
	}
	return in[:max] + "..."
}
