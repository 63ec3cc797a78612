package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		pref_key TEXT PRIMARY KEY,
		pref_value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		confidence REAL NOT NULL,
		suggested_response TEXT NOT NULL,
		original_content TEXT NOT NULL,
		subject TEXT NOT NULL DEFAULT '',
		processed_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_history_processed_at ON history(processed_at)`,
}

// SQLiteStore is a SQLite implementation of the Store interface
type SQLiteStore struct {
	sqlStore
}

// NewSQLiteStore opens (creating when needed) the database at dbPath
func NewSQLiteStore(ctx context.Context, dbPath string, logger *zap.Logger) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	// a single writer avoids "database is locked" between the ledger and settings
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{sqlStore{
		db:     db,
		logger: logger,
		upsertPref: `
			INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
			ON CONFLICT(pref_key) DO UPDATE SET pref_value = excluded.pref_value
		`,
	}}
	if err := s.migrate(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("Opened SQLite store", zap.String("path", dbPath))
	return s, nil
}
