// file: internal/database/sqlite_store.go
// version: 2.0.0
// guid: 8b9c0d1e-2f3a-4b5c-6d7e-8f9a0b1c2d3e

package database

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore implements the Store interface using SQLite3
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) createTables() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT 'string',
		is_secret INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME
	);
	`)
	return err
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetSetting(key string) (*Setting, error) {
	var setting Setting
	var isSecret int

	err := s.db.QueryRow(`
		SELECT key, value, type, is_secret
		FROM settings
		WHERE key = ?
	`, key).Scan(&setting.Key, &setting.Value, &setting.Type, &isSecret)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(key)
	}
	if err != nil {
		return nil, err
	}

	setting.IsSecret = isSecret == 1
	return &setting, nil
}

func (s *SQLiteStore) SetSetting(key, value, typ string, isSecret bool) error {
	stored, err := storedValue(value, isSecret)
	if err != nil {
		return err
	}

	isSecretInt := 0
	if isSecret {
		isSecretInt = 1
	}

	_, err = s.db.Exec(`
		INSERT INTO settings (key, value, type, is_secret, updated_at)
		VALUES (?, ?, ?, ?, datetime('now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			type = excluded.type,
			is_secret = excluded.is_secret,
			updated_at = excluded.updated_at
	`, key, stored, typ, isSecretInt)

	return err
}

func (s *SQLiteStore) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`
		SELECT key, value, type, is_secret
		FROM settings
		ORDER BY key
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var setting Setting
		var isSecret int

		if err := rows.Scan(&setting.Key, &setting.Value, &setting.Type, &isSecret); err != nil {
			continue
		}

		setting.IsSecret = isSecret == 1
		maskForList(&setting)
		settings = append(settings, setting)
	}

	return settings, rows.Err()
}

func (s *SQLiteStore) DeleteSetting(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}

var _ Store = (*SQLiteStore)(nil)
