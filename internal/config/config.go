// file: internal/config/config.go
// version: 2.0.0
// guid: 7b8c9d0e-1f2a-3b4c-5d6e-7f8a9b0c1d2e

package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration
type Config struct {
	// Server
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Settings store
	DatabaseType  string // "pebble" (default), "sqlite", or "redis"
	DatabasePath  string
	RedisAddr     string
	RedisPassword string
	DataDir       string // holds the encryption key
	EncryptConfig bool

	// Logging
	LogLevel  string
	LogFormat string

	// API protection
	RateLimitPerMinute int
	BasicAuthUser      string
	BasicAuthHash      string // bcrypt hash

	// Asset sources
	AssetsFile      string // YAML provider settings, watched when WatchAssets is set
	WatchAssets     bool
	CatalogFile     string // optional replacement for the built-in local catalog
	StaticBaseURL   string
	ProviderTimeout time.Duration
}

var AppConfig Config

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("host", "localhost")
	v.SetDefault("port", 8484)
	v.SetDefault("read_timeout", "15s")
	v.SetDefault("write_timeout", "30s")
	v.SetDefault("idle_timeout", "60s")

	v.SetDefault("database_type", "pebble")
	v.SetDefault("database_path", "data/settings")
	v.SetDefault("redis_addr", "")
	v.SetDefault("data_dir", "data")
	v.SetDefault("encrypt_config", true)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")

	v.SetDefault("rate_limit_per_minute", 120)
	v.SetDefault("basic_auth_user", "")
	v.SetDefault("basic_auth_hash", "")

	v.SetDefault("assets_file", "")
	v.SetDefault("watch_assets", false)
	v.SetDefault("catalog_file", "")
	v.SetDefault("static_base_url", "/static/assets")
	v.SetDefault("provider_timeout", "15s")
}

// FromViper builds a Config from v.
func FromViper(v *viper.Viper) Config {
	cfg := Config{
		Host:         v.GetString("host"),
		Port:         v.GetInt("port"),
		ReadTimeout:  v.GetDuration("read_timeout"),
		WriteTimeout: v.GetDuration("write_timeout"),
		IdleTimeout:  v.GetDuration("idle_timeout"),

		DatabaseType:  strings.ToLower(strings.TrimSpace(v.GetString("database_type"))),
		DatabasePath:  v.GetString("database_path"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisPassword: v.GetString("redis_password"),
		DataDir:       v.GetString("data_dir"),
		EncryptConfig: v.GetBool("encrypt_config"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),

		RateLimitPerMinute: v.GetInt("rate_limit_per_minute"),
		BasicAuthUser:      v.GetString("basic_auth_user"),
		BasicAuthHash:      v.GetString("basic_auth_hash"),

		AssetsFile:      v.GetString("assets_file"),
		WatchAssets:     v.GetBool("watch_assets"),
		CatalogFile:     v.GetString("catalog_file"),
		StaticBaseURL:   v.GetString("static_base_url"),
		ProviderTimeout: v.GetDuration("provider_timeout"),
	}

	// Normalize database type
	switch cfg.DatabaseType {
	case "sqlite3":
		cfg.DatabaseType = "sqlite"
	case "":
		cfg.DatabaseType = "pebble"
	}
	return cfg
}

// InitConfig initializes AppConfig from the global viper instance
func InitConfig() {
	SetDefaults(viper.GetViper())
	AppConfig = FromViper(viper.GetViper())
}

// Validate reports settings that cannot work together.
func (c Config) Validate() error {
	switch c.DatabaseType {
	case "pebble", "sqlite":
		if strings.TrimSpace(c.DatabasePath) == "" {
			return fmt.Errorf("database_path is required for %s", c.DatabaseType)
		}
	case "redis":
		if strings.TrimSpace(c.RedisAddr) == "" {
			return fmt.Errorf("redis_addr is required when database_type is redis")
		}
	default:
		return fmt.Errorf("unsupported database_type %q", c.DatabaseType)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.WatchAssets && c.AssetsFilePath() == "" {
		return fmt.Errorf("watch_assets requires assets_file")
	}
	if (c.BasicAuthUser == "") != (c.BasicAuthHash == "") {
		return fmt.Errorf("basic_auth_user and basic_auth_hash must be set together")
	}
	return nil
}

// Addr returns host:port.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// StoreTarget is the path or address handed to database.Open.
func (c Config) StoreTarget() string {
	if c.DatabaseType == "redis" {
		return c.RedisAddr
	}
	return c.DatabasePath
}

// AssetsFilePath returns the YAML provider settings file, defaulting to
// assets.yaml next to the database.
func (c Config) AssetsFilePath() string {
	if c.AssetsFile != "" {
		return c.AssetsFile
	}
	if c.DatabaseType != "redis" && c.DatabasePath != "" {
		return filepath.Join(filepath.Dir(c.DatabasePath), "assets.yaml")
	}
	return ""
}
