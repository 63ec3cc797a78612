package core

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Ledger is the ordered, append-only record of classification outcomes.
// One instance is shared by every consumer; entries are kept most recent
// first and never modified after insertion.
type Ledger struct {
	mu      sync.RWMutex
	entries []HistoryEntry
	repo    HistoryRepository
	logger  *zap.Logger
}

// NewLedger creates an empty ledger. repo may be nil for a memory-only ledger.
func NewLedger(repo HistoryRepository, logger *zap.Logger) *Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		repo:   repo,
		logger: logger,
	}
}

// LoadLedger creates a ledger seeded from the repository
func LoadLedger(ctx context.Context, repo HistoryRepository, logger *zap.Logger) (*Ledger, error) {
	l := NewLedger(repo, logger)
	if repo == nil {
		return l, nil
	}

	entries, err := repo.LoadEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	l.entries = entries
	l.logger.Debug("Loaded history", zap.Int("entries", len(entries)))

	return l, nil
}

// Append inserts entry at the head of the ledger and mirrors it to the
// repository.
func (l *Ledger) Append(ctx context.Context, entry HistoryEntry) {
	l.Prepend(entry)
	l.Mirror(ctx, entry)
}

// Prepend inserts entry at the head of the in-memory ledger only
func (l *Ledger) Prepend(entry HistoryEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	next := make([]HistoryEntry, 0, len(l.entries)+1)
	next = append(next, entry)
	next = append(next, l.entries...)
	l.entries = next
}

// Mirror saves entry to the repository. It is best-effort: a storage
// failure is logged and the in-memory entry stands.
func (l *Ledger) Mirror(ctx context.Context, entry HistoryEntry) {
	if l.repo == nil {
		return
	}
	if err := l.repo.SaveEntry(ctx, entry); err != nil {
		l.logger.Error("Failed to persist history entry",
			zap.Error(err),
			zap.String("category", string(entry.Category)))
	}
}

// Snapshot returns a copy of the entries, most recent first
func (l *Ledger) Snapshot() []HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Recent returns at most n of the newest entries
func (l *Ledger) Recent(n int) []HistoryEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n > len(l.entries) {
		n = len(l.entries)
	}
	if n <= 0 {
		return []HistoryEntry{}
	}
	out := make([]HistoryEntry, n)
	copy(out, l.entries[:n])
	return out
}

// Len returns the number of entries
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
