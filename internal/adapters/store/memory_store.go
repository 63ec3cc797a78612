package store

import (
	"context"
	"sync"

	"github.com/mikey/email-triage/internal/core"
	"go.uber.org/zap"
)

// Store persists both the user's preferences and the classification history
type Store interface {
	core.PreferenceStore
	core.HistoryRepository

	// Close releases the underlying connection
	Close() error
}

// MemoryStore is an in-memory implementation of the Store interface. Nothing
// survives the process.
type MemoryStore struct {
	mu      sync.RWMutex
	prefs   map[string]string
	entries []core.HistoryEntry
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory store
func NewMemoryStore(logger *zap.Logger) *MemoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MemoryStore{
		prefs:  make(map[string]string),
		logger: logger,
	}
}

// GetPreference returns a stored preference
func (s *MemoryStore) GetPreference(ctx context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.prefs[key]
	return v, ok, nil
}

// SetPreference stores a preference
func (s *MemoryStore) SetPreference(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prefs[key] = value
	return nil
}

// SaveEntry stores a history entry
func (s *MemoryStore) SaveEntry(ctx context.Context, entry core.HistoryEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	return nil
}

// LoadEntries returns the stored entries, most recent first
func (s *MemoryStore) LoadEntries(ctx context.Context) ([]core.HistoryEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.HistoryEntry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
