package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

var mysqlSchema = []string{
	`CREATE TABLE IF NOT EXISTS preferences (
		pref_key VARCHAR(64) PRIMARY KEY,
		pref_value VARCHAR(255) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS history (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		category VARCHAR(32) NOT NULL,
		confidence DOUBLE NOT NULL,
		suggested_response TEXT NOT NULL,
		original_content MEDIUMTEXT NOT NULL,
		subject VARCHAR(998) NOT NULL DEFAULT '',
		processed_at VARCHAR(40) NOT NULL,
		INDEX idx_history_processed_at (processed_at)
	)`,
}

// MySQLStore is a MySQL implementation of the Store interface
type MySQLStore struct {
	sqlStore
}

// NewMySQLStore connects to the database described by dsn
func NewMySQLStore(ctx context.Context, dsn string, logger *zap.Logger) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	s, err := NewMySQLStoreFromDB(ctx, db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewMySQLStoreFromDB wraps an open connection and creates the schema
func NewMySQLStoreFromDB(ctx context.Context, db *sql.DB, logger *zap.Logger) (*MySQLStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &MySQLStore{sqlStore{
		db:     db,
		logger: logger,
		upsertPref: `
			INSERT INTO preferences (pref_key, pref_value) VALUES (?, ?)
			ON DUPLICATE KEY UPDATE pref_value = VALUES(pref_value)
		`,
	}}
	if err := s.migrate(ctx, mysqlSchema); err != nil {
		return nil, err
	}
	return s, nil
}
