package store

import (
	"database/sql"
	_ "embed"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schema string

// Store holds local client state: the access token and UI settings.
// Server data is never persisted here; collections are always refetched.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the settings database inside dataDir.
func Open(dataDir string) (*Store, error) {
	return openPath(filepath.Join(dataDir, "projadm.db"))
}

// OpenMemory opens an in-memory store, used by tests.
func OpenMemory() (*Store, error) {
	return openPath(":memory:")
}

func openPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get retrieves a setting value by key; missing keys return ""
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// Set stores a setting value
func (s *Store) Set(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Delete removes a setting
func (s *Store) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM settings WHERE key = ?", key)
	return err
}
