// Package dashboard derives the dashboard figures from the ledger and the
// user's settings. Every function here is pure: figures are recomputed from
// their inputs on each call and never cached.
package dashboard

import (
	"fmt"
	"math"
	"time"

	"github.com/mikey/email-triage/internal/core"
)

// TimeSaved is the estimated time the user did not spend triaging by hand
type TimeSaved struct {
	Hours   int
	Minutes int
}

// String formats the duration the way the dashboard card shows it: "1h 20m"
// once an hour is reached, otherwise just "6m".
func (t TimeSaved) String() string {
	if t.Hours > 0 {
		return fmt.Sprintf("%dh %dm", t.Hours, t.Minutes)
	}
	return fmt.Sprintf("%dm", t.Minutes)
}

// TotalMinutes returns the saved time in minutes
func (t TimeSaved) TotalMinutes() int {
	return t.Hours*60 + t.Minutes
}

// CategoryCounts tallies history entries per category
type CategoryCounts struct {
	Productive   int
	Unproductive int
}

// Figures is everything the dashboard shows at once
type Figures struct {
	EmailsToday       int
	TimeSaved         TimeSaved
	AverageConfidence int
	HasConfidence     bool
	Counts            CategoryCounts
	Total             int
}

// EmailsProcessedToday counts entries processed on now's calendar day, in
// now's location.
func EmailsProcessedToday(entries []core.HistoryEntry, now time.Time) int {
	y, m, d := now.Date()
	loc := now.Location()

	count := 0
	for _, e := range entries {
		ey, em, ed := e.ProcessedAt.In(loc).Date()
		if ey == y && em == m && ed == d {
			count++
		}
	}
	return count
}

// ComputeTimeSaved converts a count of emails into hours and minutes
func ComputeTimeSaved(emailsToday, minutesPerEmail int) TimeSaved {
	total := emailsToday * minutesPerEmail
	return TimeSaved{
		Hours:   total / 60,
		Minutes: total % 60,
	}
}

// AverageConfidence returns the mean confidence as a rounded percentage.
// ok is false for an empty history.
func AverageConfidence(entries []core.HistoryEntry) (percent int, ok bool) {
	if len(entries) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, e := range entries {
		sum += e.Confidence
	}
	return int(math.Round(sum / float64(len(entries)) * 100)), true
}

// ConfidencePercent renders one confidence value as a whole percentage
func ConfidencePercent(confidence float64) int {
	return int(math.Round(confidence * 100))
}

// CountCategories tallies entries per category
func CountCategories(entries []core.HistoryEntry) CategoryCounts {
	var c CategoryCounts
	for _, e := range entries {
		switch e.Category {
		case core.CategoryProductive:
			c.Productive++
		case core.CategoryUnproductive:
			c.Unproductive++
		}
	}
	return c
}

// Project computes all dashboard figures
func Project(entries []core.HistoryEntry, settings core.Settings, now time.Time) Figures {
	today := EmailsProcessedToday(entries, now)
	avg, ok := AverageConfidence(entries)
	return Figures{
		EmailsToday:       today,
		TimeSaved:         ComputeTimeSaved(today, settings.MinutesPerEmail),
		AverageConfidence: avg,
		HasConfidence:     ok,
		Counts:            CountCategories(entries),
		Total:             len(entries),
	}
}
