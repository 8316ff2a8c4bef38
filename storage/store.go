// Package storage persists validation responses so repeated uploads of the
// same image do not re-spend external API calls. Nothing here is
// authoritative state; losing the database only costs cache misses.
package storage

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ValidationEntry is a cached validation verdict.
type ValidationEntry struct {
	Approved          bool
	CorrectedCategory string
	Rationale         string
	DamageLevel       int
	CreatedAt         time.Time
}

// ValidationStore is the cache persistence contract.
type ValidationStore interface {
	// Get returns nil, nil when the key is absent.
	Get(key string) (*ValidationEntry, error)
	Set(key string, entry *ValidationEntry) error
	Close() error
}

// SQLiteStore implements ValidationStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore opens (creating if needed) the cache database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.init(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteStore) init() error {
	query := `
	CREATE TABLE IF NOT EXISTS validation_cache (
		key TEXT PRIMARY KEY,
		approved INTEGER NOT NULL,
		corrected_category TEXT NOT NULL,
		rationale TEXT NOT NULL,
		damage_level INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to create validation_cache table: %w", err)
	}
	return nil
}

// Get retrieves a cached entry by key. Returns nil, nil on a miss.
func (s *SQLiteStore) Get(key string) (*ValidationEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entry ValidationEntry
	var approved int
	err := s.db.QueryRow(
		"SELECT approved, corrected_category, rationale, damage_level, created_at FROM validation_cache WHERE key = ?",
		key,
	).Scan(&approved, &entry.CorrectedCategory, &entry.Rationale, &entry.DamageLevel, &entry.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query validation cache: %w", err)
	}
	entry.Approved = approved != 0
	return &entry, nil
}

// Set stores or replaces a cache entry.
func (s *SQLiteStore) Set(key string, entry *ValidationEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	approved := 0
	if entry.Approved {
		approved = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO validation_cache (key, approved, corrected_category, rationale, damage_level)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			approved = excluded.approved,
			corrected_category = excluded.corrected_category,
			rationale = excluded.rationale,
			damage_level = excluded.damage_level,
			created_at = CURRENT_TIMESTAMP
	`, key, approved, entry.CorrectedCategory, entry.Rationale, entry.DamageLevel)
	if err != nil {
		return fmt.Errorf("failed to save validation cache entry: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
