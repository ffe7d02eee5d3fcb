// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jdfalk/asset-store/internal/config"
	"github.com/jdfalk/asset-store/internal/logger"
)

var cfgFile string
var envFile string
var databasePath string
var databaseType string

// log is the process logger, rebuilt by initConfig once settings are known.
var log = logger.New(logger.Options{Format: "console"})

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "asset-store",
	Short: "Search stock photos, videos, and local design assets",
	Long: `Asset Store puts Unsplash, Pexels, and a built-in library of shapes,
frames, and icons behind one search API.

Provider keys and preferences are kept in a settings store and can be
changed at runtime through the HTTP API or the config command.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.asset-store.yaml)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "", "path to the settings database (default data/settings)")
	rootCmd.PersistentFlags().StringVar(&databaseType, "db-type", "", "settings backend: pebble (default), sqlite, or redis")
	rootCmd.PersistentFlags().String("redis-addr", "", "redis address when --db-type=redis")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "log format: console or json")

	_ = viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("database_type", rootCmd.PersistentFlags().Lookup("db-type"))
	_ = viper.BindPFlag("redis_addr", rootCmd.PersistentFlags().Lookup("redis-addr"))
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(featuredCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(validateKeysCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

func initConfig() {
	// .env values never override variables already set in the environment.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("file", envFile).Msg("could not load env file")
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".asset-store")
	}

	viper.SetEnvPrefix("ASSET_STORE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	configErr := viper.ReadInConfig()

	config.InitConfig()
	log = logger.New(logger.Options{
		Level:  config.AppConfig.LogLevel,
		Format: config.AppConfig.LogFormat,
	})

	if configErr == nil {
		log.Info().Str("file", viper.ConfigFileUsed()).Msg("using config file")
	}

	// Ensure database directory exists
	if config.AppConfig.DatabaseType != "redis" && config.AppConfig.DatabasePath != "" {
		dbDir := filepath.Dir(config.AppConfig.DatabasePath)
		if dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o755); err != nil {
				log.Error().Err(err).Str("dir", dbDir).Msg("failed to create database directory")
			}
		}
	}
}
