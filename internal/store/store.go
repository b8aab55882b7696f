// Package store provides the local persistence layer: a SQLite-backed
// key/value table where each key holds one JSON-encoded collection.
//
// The store is the single source of truth between syncs. Writes are
// last-write-wins at collection granularity; there is no per-record
// versioning. A value that fails to decode is logged and treated as
// absent rather than surfaced as an error, so one corrupted collection
// cannot wedge the whole dataset.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS collections (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
`

// Store wraps the SQLite connection holding the local collections.
type Store struct {
	conn   *sql.DB
	path   string
	logger *log.Logger

	// onChange, when set, runs after every successful write. The sync
	// scheduler hooks it to debounce exports.
	onChange func(key string)
}

// Open creates or opens the store database at path.
// The caller must Close() when done.
func Open(path string, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(os.Stderr, "[store] ", log.LstdFlags)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	s := &Store{conn: conn, path: path, logger: logger}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return s, nil
}

// Close checkpoints the WAL and closes the connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	_, _ = s.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	s.conn = nil
	return nil
}

// Path returns the database file path. The daemon watches it for writes
// made by other processes.
func (s *Store) Path() string {
	return s.path
}

// SetOnChange registers the post-write hook. Pass nil to clear it.
func (s *Store) SetOnChange(fn func(key string)) {
	s.onChange = fn
}

// Set JSON-encodes v and stores it under key, replacing any prior value.
func (s *Store) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.SetRaw(key, data)
}

// SetRaw stores pre-encoded JSON under key.
func (s *Store) SetRaw(key string, data []byte) error {
	_, err := s.conn.Exec(
		`INSERT INTO collections (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if s.onChange != nil {
		s.onChange(key)
	}
	return nil
}

// GetRaw returns the stored JSON for key, or (nil, false) when absent.
func (s *Store) GetRaw(key string) ([]byte, bool, error) {
	var value string
	err := s.conn.QueryRow("SELECT value FROM collections WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), true, nil
}

// Load decodes the value under key into dst. A missing key returns
// (false, nil) and leaves dst untouched. A value that fails to decode is
// logged and reported as missing.
func (s *Store) Load(key string, dst any) (bool, error) {
	data, ok, err := s.GetRaw(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		s.logger.Printf("Discarding unreadable value for %s: %v", key, err)
		return false, nil
	}
	return true, nil
}

// GetString reads a scalar string value, returning "" when absent.
func (s *Store) GetString(key string) (string, error) {
	var v string
	ok, err := s.Load(key, &v)
	if err != nil || !ok {
		return "", err
	}
	return v, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if _, err := s.conn.Exec("DELETE FROM collections WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	if s.onChange != nil {
		s.onChange(key)
	}
	return nil
}

// DeleteAll removes every listed key in one transaction. Used by the full
// import, which replaces all collections wholesale.
func (s *Store) DeleteAll(keys []string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	for _, key := range keys {
		if _, err := tx.Exec("DELETE FROM collections WHERE key = ?", key); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}
	return nil
}

// Keys returns every stored key in sorted order.
func (s *Store) Keys() ([]string, error) {
	rows, err := s.conn.Query("SELECT key FROM collections ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("failed to scan key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
