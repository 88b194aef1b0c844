// Package storage provides the persistent store for the application
// state blob. The whole state is serialized as one document and kept
// under a single fixed key in a local key-value table.
package storage

import (
	"context"
	"os"
	"path/filepath"
)

// StateKey is the fixed key the serialized application state lives
// under. It matches the storage key of earlier clients so existing
// data files and backups remain readable.
const StateKey = "mindful_weekly_data"

// Store defines the interface for state blob storage backends.
//
// Load reports absence (missing file, missing key) via the boolean,
// not an error: the caller applies defaults in that case. Save errors
// are expected to be logged by the caller and treated as non-fatal;
// the in-memory state stays authoritative for the session.
type Store interface {
	// Load returns the persisted state blob, or ok=false when no
	// data has been saved yet.
	Load(ctx context.Context) (data []byte, ok bool, err error)

	// Save replaces the persisted state blob wholesale.
	Save(ctx context.Context, data []byte) error

	// Close releases the underlying database handle.
	Close() error
}

// Config holds store configuration
type Config struct {
	// Path is the SQLite database file path.
	// Special value ":memory:" creates an in-memory database (useful for tests).
	Path string
}

// DefaultConfig returns a config pointing at the per-user data
// directory (~/.local/share/mindweek/mindweek.db).
func DefaultConfig() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return &Config{Path: "mindweek.db"}
	}
	return &Config{Path: filepath.Join(home, ".local", "share", "mindweek", "mindweek.db")}
}
