// file: internal/database/pebble_store.go
// version: 2.0.0
// guid: 0c1d2e3f-4a5b-6c7d-8e9f-0a1b2c3d4e5f

package database

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble/v2"
)

// PebbleStore implements Store using PebbleDB (LSM key-value store)
//
// Key Schema:
// - setting:<key> -> Setting JSON
type PebbleStore struct {
	db *pebble.DB
}

const settingPrefix = "setting:"

// NewPebbleStore creates a new PebbleDB store
func NewPebbleStore(path string) (*PebbleStore, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open PebbleDB: %w", err)
	}
	return &PebbleStore{db: db}, nil
}

// Close closes the database
func (p *PebbleStore) Close() error {
	return p.db.Close()
}

func (p *PebbleStore) GetSetting(key string) (*Setting, error) {
	data, closer, err := p.db.Get([]byte(settingPrefix + key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, notFound(key)
		}
		return nil, err
	}
	defer closer.Close()

	var setting Setting
	if err := json.Unmarshal(data, &setting); err != nil {
		return nil, err
	}
	return &setting, nil
}

func (p *PebbleStore) SetSetting(key, value, typ string, isSecret bool) error {
	stored, err := storedValue(value, isSecret)
	if err != nil {
		return err
	}

	data, err := json.Marshal(Setting{
		Key:      key,
		Value:    stored,
		Type:     typ,
		IsSecret: isSecret,
	})
	if err != nil {
		return err
	}

	return p.db.Set([]byte(settingPrefix+key), data, pebble.Sync)
}

func (p *PebbleStore) GetAllSettings() ([]Setting, error) {
	var settings []Setting

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(settingPrefix),
		UpperBound: []byte(settingPrefix + "\xff"),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var setting Setting
		if err := json.Unmarshal(iter.Value(), &setting); err != nil {
			continue
		}
		maskForList(&setting)
		settings = append(settings, setting)
	}

	return settings, iter.Error()
}

func (p *PebbleStore) DeleteSetting(key string) error {
	return p.db.Delete([]byte(settingPrefix+key), pebble.Sync)
}

var _ Store = (*PebbleStore)(nil)
