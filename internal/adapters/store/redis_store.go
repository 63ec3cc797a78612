package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore is a Redis implementation of the Store interface. History is a
// list with the newest entry at the head; preferences are one hash.
type RedisStore struct {
	client *redis.Client
	prefix string
	logger *zap.Logger
}

type redisEntry struct {
	Category          string    `json:"category"`
	Confidence        float64   `json:"confidence"`
	SuggestedResponse string    `json:"suggested_response"`
	OriginalContent   string    `json:"original_content"`
	Subject           string    `json:"subject,omitempty"`
	ProcessedAt       time.Time `json:"processed_at"`
}

// NewRedisStore connects to Redis and checks the connection
func NewRedisStore(ctx context.Context, opts *redis.Options, prefix string, logger *zap.Logger) (*RedisStore, error) {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", opts.Addr, err)
	}
	return NewRedisStoreFromClient(client, prefix, logger), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client, prefix string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = "email-triage"
	}
	return &RedisStore{
		client: client,
		prefix: prefix,
		logger: logger,
	}
}

func (s *RedisStore) historyKey() string { return s.prefix + ":history" }
func (s *RedisStore) prefsKey() string   { return s.prefix + ":preferences" }

// GetPreference returns a stored preference
func (s *RedisStore) GetPreference(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.prefsKey(), key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read preference %q: %w", key, err)
	}
	return v, true, nil
}

// SetPreference stores a preference
func (s *RedisStore) SetPreference(ctx context.Context, key, value string) error {
	if err := s.client.HSet(ctx, s.prefsKey(), key, value).Err(); err != nil {
		return fmt.Errorf("failed to store preference %q: %w", key, err)
	}
	return nil
}

// SaveEntry pushes a history entry onto the head of the list
func (s *RedisStore) SaveEntry(ctx context.Context, entry core.HistoryEntry) error {
	data, err := json.Marshal(redisEntry{
		Category:          string(entry.Category),
		Confidence:        entry.Confidence,
		SuggestedResponse: entry.SuggestedResponse,
		OriginalContent:   entry.OriginalContent,
		Subject:           entry.Subject,
		ProcessedAt:       entry.ProcessedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	if err := s.client.LPush(ctx, s.historyKey(), data).Err(); err != nil {
		return fmt.Errorf("failed to push history entry: %w", err)
	}
	return nil
}

// LoadEntries returns the stored entries, most recent first
func (s *RedisStore) LoadEntries(ctx context.Context) ([]core.HistoryEntry, error) {
	raw, err := s.client.LRange(ctx, s.historyKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	entries := make([]core.HistoryEntry, 0, len(raw))
	for _, item := range raw {
		var e redisEntry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			s.logger.Warn("Skipping undecodable history entry", zap.Error(err))
			continue
		}
		entries = append(entries, core.HistoryEntry{
			ClassificationResult: core.ClassificationResult{
				Category:          core.Category(e.Category),
				Confidence:        e.Confidence,
				SuggestedResponse: e.SuggestedResponse,
				OriginalContent:   e.OriginalContent,
				ProcessedAt:       e.ProcessedAt,
			},
			Subject: e.Subject,
		})
	}
	return entries, nil
}

// Close closes the Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
