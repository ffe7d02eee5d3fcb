// file: internal/database/store.go
// version: 3.0.0
// guid: 8a9b0c1d-2e3f-4a5b-6c7d-8e9f0a1b2c3d

package database

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSettingNotFound is returned by GetSetting when the key does not exist.
var ErrSettingNotFound = errors.New("setting not found")

// Store is the settings persistence contract.
// PebbleDB is the default backend; SQLite and Redis are opt-in.
type Store interface {
	// Lifecycle
	Close() error

	// Settings (persistent configuration with encryption support)
	GetSetting(key string) (*Setting, error)
	SetSetting(key, value, typ string, isSecret bool) error
	GetAllSettings() ([]Setting, error)
	DeleteSetting(key string) error
}

// Backend names accepted by Open.
const (
	BackendPebble = "pebble"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Open creates the store for dbType. For redis, target is the server
// address; otherwise it is a filesystem path.
func Open(dbType, target string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(dbType)) {
	case "", BackendPebble:
		return NewPebbleStore(target)
	case BackendSQLite, "sqlite3":
		return NewSQLiteStore(target)
	case BackendRedis:
		return NewRedisStore(RedisOptions{Addr: target})
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s", ErrSettingNotFound, key)
}
