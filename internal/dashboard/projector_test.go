package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/mikey/email-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(at time.Time, category core.Category, confidence float64) core.HistoryEntry {
	return core.HistoryEntry{
		ClassificationResult: core.ClassificationResult{
			Category:    category,
			Confidence:  confidence,
			ProcessedAt: at,
		},
	}
}

func TestEmailsProcessedToday(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 0, 0, time.Local)
	yesterday := now.AddDate(0, 0, -1)

	entries := []core.HistoryEntry{
		entryAt(now, core.CategoryProductive, 0.9),
		entryAt(time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), core.CategoryProductive, 0.9),
		entryAt(time.Date(2024, 1, 15, 23, 59, 59, 0, time.Local), core.CategoryUnproductive, 0.8),
		entryAt(yesterday, core.CategoryProductive, 0.9),
		entryAt(time.Date(2024, 1, 14, 23, 59, 59, 0, time.Local), core.CategoryUnproductive, 0.6),
	}

	assert.Equal(t, 3, EmailsProcessedToday(entries, now))
	assert.Equal(t, 0, EmailsProcessedToday(nil, now))
}

func TestEmailsProcessedToday_UsesNowLocation(t *testing.T) {
	saoPaulo := time.FixedZone("BRT", -3*60*60)
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, saoPaulo)

	// 01:00 UTC on the 16th is still the 15th in BRT
	lateEvening := time.Date(2024, 1, 16, 1, 0, 0, 0, time.UTC)
	// 02:00 UTC on the 15th is the 14th in BRT
	previousNight := time.Date(2024, 1, 15, 2, 0, 0, 0, time.UTC)

	entries := []core.HistoryEntry{
		entryAt(lateEvening, core.CategoryProductive, 1),
		entryAt(previousNight, core.CategoryProductive, 1),
	}
	assert.Equal(t, 1, EmailsProcessedToday(entries, now))
}

func TestComputeTimeSaved(t *testing.T) {
	tests := []struct {
		emails, minutes int
		want            TimeSaved
		text            string
	}{
		{3, 2, TimeSaved{Hours: 0, Minutes: 6}, "6m"},
		{40, 2, TimeSaved{Hours: 1, Minutes: 20}, "1h 20m"},
		{0, 2, TimeSaved{}, "0m"},
		{30, 2, TimeSaved{Hours: 1, Minutes: 0}, "1h 0m"},
		{7, 60, TimeSaved{Hours: 7, Minutes: 0}, "7h 0m"},
	}

	for _, tt := range tests {
		got := ComputeTimeSaved(tt.emails, tt.minutes)
		assert.Equal(t, tt.want, got)
		assert.Equal(t, tt.text, got.String())
		assert.Equal(t, tt.emails*tt.minutes, got.TotalMinutes())
	}
}

func TestAverageConfidence(t *testing.T) {
	_, ok := AverageConfidence(nil)
	assert.False(t, ok)

	now := time.Now()
	avg, ok := AverageConfidence([]core.HistoryEntry{
		entryAt(now, core.CategoryProductive, 0.95),
		entryAt(now, core.CategoryUnproductive, 0.80),
	})
	assert.True(t, ok)
	assert.Equal(t, 88, avg)
	assert.Equal(t, 95, ConfidencePercent(0.949))
}

func TestCountCategories(t *testing.T) {
	now := time.Now()
	counts := CountCategories([]core.HistoryEntry{
		entryAt(now, core.CategoryProductive, 1),
		entryAt(now, core.CategoryProductive, 1),
		entryAt(now, core.CategoryUnproductive, 1),
	})
	assert.Equal(t, CategoryCounts{Productive: 2, Unproductive: 1}, counts)
}

func TestProject_IsDeterministic(t *testing.T) {
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.Local)
	entries := []core.HistoryEntry{
		entryAt(now, core.CategoryProductive, 0.9),
		entryAt(now.Add(-48*time.Hour), core.CategoryUnproductive, 0.5),
	}
	settings := core.Settings{MinutesPerEmail: 45, Theme: core.ThemeDark}

	first := Project(entries, settings, now)
	second := Project(entries, settings, now)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, first.EmailsToday)
	assert.Equal(t, TimeSaved{Minutes: 45}, first.TimeSaved)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, 70, first.AverageConfidence)
}

type mapPrefs map[string]string

func (m mapPrefs) GetPreference(ctx context.Context, key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapPrefs) SetPreference(ctx context.Context, key, value string) error {
	m[key] = value
	return nil
}

type classifierFunc func(ctx context.Context, input core.ClassificationInput) (*core.ClassificationResult, error)

func (f classifierFunc) Classify(ctx context.Context, input core.ClassificationInput) (*core.ClassificationResult, error) {
	return f(ctx, input)
}

func TestView_EndToEndSubmission(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	var calls int
	classifier := classifierFunc(func(ctx context.Context, input core.ClassificationInput) (*core.ClassificationResult, error) {
		calls++
		return &core.ClassificationResult{
			Category:          core.CategoryProductive,
			Confidence:        0.93,
			SuggestedResponse: "Thanks, I will review it before Friday.",
			OriginalContent:   input.Content,
			ProcessedAt:       now,
		}, nil
	})

	ledger := core.NewLedger(nil, nil)
	settings, err := core.NewSettingsStore(ctx, mapPrefs{}, nil)
	require.NoError(t, err)
	orchestrator := core.NewOrchestrator(classifier, ledger, nil, nil, nil)
	view := NewView(ledger, settings, func() time.Time { return now })

	assert.Equal(t, 0, view.Figures().EmailsToday)

	res, err := orchestrator.Submit(ctx, core.TextInput("Please review the attached report by Friday.", ""))
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	entries := ledger.Snapshot()
	require.Len(t, entries, 1)
	assert.Equal(t, res.Category, entries[0].Category)
	assert.Equal(t, res.Confidence, entries[0].Confidence)
	assert.Equal(t, res.SuggestedResponse, entries[0].SuggestedResponse)
	assert.Equal(t, "Please review the attached report by Friday.", entries[0].OriginalContent)

	figures := view.Figures()
	assert.Equal(t, 1, figures.EmailsToday)
	assert.Equal(t, TimeSaved{Minutes: 2}, figures.TimeSaved)

	_, err = settings.SetMinutesPerEmail(ctx, 90)
	require.NoError(t, err)
	assert.Equal(t, TimeSaved{Hours: 1}, view.Figures().TimeSaved)
	assert.Len(t, view.Recent(3), 1)
}
