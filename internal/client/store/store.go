// Package store implements the device-local persistent key/value store.
// Each clinic collection is kept as one JSON-serialized row in a SQLite
// database, so reads and writes are synchronous and survive restarts.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrStorage marks local persistence failures (open, serialization, write).
// Callers match it with errors.Is and surface it as a non-fatal warning;
// a failed local write must never take the application down.
var ErrStorage = errors.New("local store failure")

const schema = `
CREATE TABLE IF NOT EXISTS kv (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// Store is a durable key/value store scoped to one device profile.
type Store struct {
	db  *sqlx.DB
	log *zap.Logger
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string, log *zap.Logger) (*Store, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %v", path, ErrStorage, err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w: %v", ErrStorage, err)
	}
	return &Store{db: db, log: log}, nil
}

// Read returns the raw value stored under key, or ok=false if the key was
// never written. Read failures are logged and reported as absent rather than
// returned: a corrupted row must not crash the caller.
func (s *Store) Read(key string) ([]byte, bool) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM kv WHERE key = ?`, key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Warn("local store read failed, treating as absent",
				zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return []byte(value), true
}

// ReadJSON reads key and unmarshals it into dest. A missing key or malformed
// stored content both report ok=false and leave dest untouched.
func (s *Store) ReadJSON(key string, dest any) bool {
	raw, ok := s.Read(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("local store holds malformed value, treating as absent",
			zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// WriteJSON serializes v and stores it under key, replacing any prior value.
func (s *Store) WriteJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w: %v", key, ErrStorage, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value
	`, key, string(raw))
	if err != nil {
		return fmt.Errorf("write %s: %w: %v", key, ErrStorage, err)
	}
	return nil
}

// Clear removes every key. Used only by factory reset.
func (s *Store) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM kv`); err != nil {
		return fmt.Errorf("clear: %w: %v", ErrStorage, err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
