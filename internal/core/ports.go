package core

import (
	"context"
)

// Classifier defines the interface for talking to the remote classification service
type Classifier interface {
	// Classify sends one input to the service and returns its verdict
	Classify(ctx context.Context, input ClassificationInput) (*ClassificationResult, error)
}

// PreferenceStore is the key/value collaborator backing the settings store
type PreferenceStore interface {
	// GetPreference returns the raw persisted value and whether it exists
	GetPreference(ctx context.Context, key string) (string, bool, error)

	// SetPreference persists a raw value, replacing any previous one
	SetPreference(ctx context.Context, key, value string) error
}

// HistoryRepository mirrors the ledger to durable storage
type HistoryRepository interface {
	// SaveEntry stores one history entry
	SaveEntry(ctx context.Context, entry HistoryEntry) error

	// LoadEntries returns stored entries, most recent first
	LoadEntries(ctx context.Context) ([]HistoryEntry, error)
}

// Recorder observes terminal states of submissions
type Recorder interface {
	ObserveSubmission(kind InputKind, outcome Outcome, seconds float64)
}
