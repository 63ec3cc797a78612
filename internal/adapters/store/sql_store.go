package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// sqlStore holds the queries shared by the SQLite and MySQL stores. Only the
// schema and the upsert statement differ between them.
type sqlStore struct {
	db         *sql.DB
	logger     *zap.Logger
	upsertPref string
}

func (s *sqlStore) migrate(ctx context.Context, schema []string) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// GetPreference returns a stored preference
func (s *sqlStore) GetPreference(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `
		SELECT pref_value FROM preferences WHERE pref_key = ?
	`, key).Scan(&value)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to query preference %q: %w", key, err)
	}
	return value, true, nil
}

// SetPreference stores a preference, replacing the previous value
func (s *sqlStore) SetPreference(ctx context.Context, key, value string) error {
	if _, err := s.db.ExecContext(ctx, s.upsertPref, key, value); err != nil {
		return fmt.Errorf("failed to store preference %q: %w", key, err)
	}
	s.logger.Debug("Stored preference", zap.String("key", key), zap.String("value", value))
	return nil
}

// SaveEntry stores a history entry
func (s *sqlStore) SaveEntry(ctx context.Context, entry core.HistoryEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (category, confidence, suggested_response, original_content, subject, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, string(entry.Category), entry.Confidence, entry.SuggestedResponse, entry.OriginalContent,
		entry.Subject, entry.ProcessedAt.Format(time.RFC3339Nano))

	if err != nil {
		return fmt.Errorf("failed to insert history entry: %w", err)
	}
	return nil
}

// LoadEntries returns the stored entries, most recent first
func (s *sqlStore) LoadEntries(ctx context.Context) ([]core.HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, confidence, suggested_response, original_content, subject, processed_at
		FROM history
		ORDER BY id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []core.HistoryEntry
	for rows.Next() {
		var (
			e           core.HistoryEntry
			category    string
			processedAt string
		)
		if err := rows.Scan(&category, &e.Confidence, &e.SuggestedResponse, &e.OriginalContent, &e.Subject, &processedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}

		e.Category = core.Category(category)
		e.ProcessedAt, err = time.Parse(time.RFC3339Nano, processedAt)
		if err != nil {
			s.logger.Warn("Skipping history row with bad timestamp",
				zap.String("processed_at", processedAt),
				zap.Error(err))
			continue
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	return entries, nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}
