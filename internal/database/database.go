package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the sqlite connection holding the reservation set. sqlite's
// single-writer transactions are the serialization point that makes group
// commits race-free.
type DB struct {
	*sql.DB
	logger *zerolog.Logger
}

func NewDB(path string, logger *zerolog.Logger) (*DB, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := createTables(db); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return &DB{DB: db, logger: logger}, nil
}

func createTables(db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS reservations (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            uid TEXT NOT NULL,
            group_id TEXT NOT NULL,
            sequence_id TEXT NOT NULL UNIQUE,
            owner_ref TEXT NOT NULL,
            owner_name TEXT,
            owner_email TEXT,
            service TEXT NOT NULL,
            start_ts INTEGER NOT NULL,
            end_ts INTEGER NOT NULL,
            duration INTEGER NOT NULL,
            status TEXT NOT NULL DEFAULT 'Pending',
            recurrence TEXT NOT NULL DEFAULT 'single',
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            version INTEGER NOT NULL DEFAULT 1,
            CHECK (start_ts < end_ts)
        )`,

		// sequence_id carries the check-in lookup; start_ts carries the
		// calendar and conflict queries.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_reservations_sequence_id ON reservations(sequence_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_group_id ON reservations(group_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_start ON reservations(start_ts)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_owner ON reservations(owner_ref)`,
	}

	for _, query := range queries {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}
	return nil
}
