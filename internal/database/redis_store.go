// file: internal/database/redis_store.go
// version: 1.0.0
// guid: 6f2a9d41-3c8e-4b17-a5d0-e9b4c1f7a823

package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOptions configures NewRedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	// HashKey is the Redis hash holding every setting. Defaults to
	// "asset-store:settings".
	HashKey string
	Timeout time.Duration
}

// RedisStore keeps settings in a single Redis hash so several server
// instances can share one configuration.
//
// Key Schema:
// - <HashKey> field <key> -> Setting JSON
type RedisStore struct {
	rdb     *redis.Client
	hashKey string
	timeout time.Duration
}

// NewRedisStore connects and pings the server.
func NewRedisStore(opts RedisOptions) (*RedisStore, error) {
	addr := strings.TrimSpace(opts.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing redis address")
	}
	if opts.HashKey == "" {
		opts.HashKey = "asset-store:settings"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisStore{rdb: rdb, hashKey: opts.HashKey, timeout: opts.Timeout}, nil
}

func (r *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Close closes the client.
func (r *RedisStore) Close() error {
	return r.rdb.Close()
}

func (r *RedisStore) GetSetting(key string) (*Setting, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	raw, err := r.rdb.HGet(ctx, r.hashKey, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, err
	}

	var setting Setting
	if err := json.Unmarshal([]byte(raw), &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *RedisStore) SetSetting(key, value, typ string, isSecret bool) error {
	stored, err := storedValue(value, isSecret)
	if err != nil {
		return err
	}
	data, err := json.Marshal(Setting{Key: key, Value: stored, Type: typ, IsSecret: isSecret})
	if err != nil {
		return err
	}

	ctx, cancel := r.ctx()
	defer cancel()
	return r.rdb.HSet(ctx, r.hashKey, key, data).Err()
}

func (r *RedisStore) GetAllSettings() ([]Setting, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	all, err := r.rdb.HGetAll(ctx, r.hashKey).Result()
	if err != nil {
		return nil, err
	}

	settings := make([]Setting, 0, len(all))
	for _, raw := range all {
		var setting Setting
		if err := json.Unmarshal([]byte(raw), &setting); err != nil {
			continue
		}
		maskForList(&setting)
		settings = append(settings, setting)
	}
	sort.Slice(settings, func(i, j int) bool { return settings[i].Key < settings[j].Key })
	return settings, nil
}

func (r *RedisStore) DeleteSetting(key string) error {
	ctx, cancel := r.ctx()
	defer cancel()
	return r.rdb.HDel(ctx, r.hashKey, key).Err()
}

var _ Store = (*RedisStore)(nil)
