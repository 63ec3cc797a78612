package dashboard

import (
	"time"

	"github.com/mikey/email-triage/internal/core"
)

// View binds the projector to the shared ledger and settings store so that
// every read reflects the latest appends and preference changes.
type View struct {
	ledger   *core.Ledger
	settings *core.SettingsStore
	now      func() time.Time
}

// NewView creates a dashboard view. now defaults to time.Now.
func NewView(ledger *core.Ledger, settings *core.SettingsStore, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	return &View{
		ledger:   ledger,
		settings: settings,
		now:      now,
	}
}

// Figures recomputes the dashboard figures
func (v *View) Figures() Figures {
	return Project(v.ledger.Snapshot(), v.settings.Get(), v.now())
}

// Recent returns the newest entries for the dashboard's history panel
func (v *View) Recent(n int) []core.HistoryEntry {
	return v.ledger.Recent(n)
}
