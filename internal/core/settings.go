package core

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Preference keys in the PreferenceStore
const (
	PrefMinutesPerEmail = "minutes_per_email"
	PrefTheme           = "theme"
)

// ThemeListener is notified after a theme change has been persisted
type ThemeListener func(Theme)

// SettingsStore holds validated user preferences backed by a PreferenceStore
type SettingsStore struct {
	mu        sync.RWMutex
	current   Settings
	prefs     PreferenceStore
	logger    *zap.Logger
	listeners []ThemeListener
}

// NewSettingsStore reads persisted preferences once, substituting defaults
// for anything missing or malformed.
func NewSettingsStore(ctx context.Context, prefs PreferenceStore, logger *zap.Logger) (*SettingsStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &SettingsStore{
		current: DefaultSettings(),
		prefs:   prefs,
		logger:  logger,
	}

	raw, ok, err := prefs.GetPreference(ctx, PrefMinutesPerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", PrefMinutesPerEmail, err)
	}
	if ok {
		if minutes, valid := parseMinutes(raw); valid {
			s.current.MinutesPerEmail = minutes
		} else {
			logger.Warn("Ignoring malformed preference",
				zap.String("key", PrefMinutesPerEmail),
				zap.String("value", raw))
		}
	}

	raw, ok, err = prefs.GetPreference(ctx, PrefTheme)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", PrefTheme, err)
	}
	if ok {
		if theme := Theme(strings.TrimSpace(raw)); theme.Valid() {
			s.current.Theme = theme
		} else {
			logger.Warn("Ignoring malformed preference",
				zap.String("key", PrefTheme),
				zap.String("value", raw))
		}
	}

	return s, nil
}

func parseMinutes(raw string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < MinMinutesPerEmail || n > MaxMinutesPerEmail {
		return 0, false
	}
	return n, true
}

// ClampMinutes rounds v to the nearest integer and clamps it to [1,60]
func ClampMinutes(v float64) int {
	if math.IsNaN(v) {
		return DefaultMinutesPerEmail
	}
	n := math.Round(v)
	if n < MinMinutesPerEmail {
		return MinMinutesPerEmail
	}
	if n > MaxMinutesPerEmail {
		return MaxMinutesPerEmail
	}
	return int(n)
}

// Get returns the current settings
func (s *SettingsStore) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetMinutesPerEmail clamps and rounds v, persists it and returns the stored value
func (s *SettingsStore) SetMinutesPerEmail(ctx context.Context, v float64) (int, error) {
	minutes := ClampMinutes(v)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.prefs.SetPreference(ctx, PrefMinutesPerEmail, strconv.Itoa(minutes)); err != nil {
		return s.current.MinutesPerEmail, fmt.Errorf("failed to persist %s: %w", PrefMinutesPerEmail, err)
	}
	s.current.MinutesPerEmail = minutes

	s.logger.Debug("Updated minutes per email", zap.Float64("requested", v), zap.Int("stored", minutes))
	return minutes, nil
}

// SetTheme persists the theme and notifies theme listeners
func (s *SettingsStore) SetTheme(ctx context.Context, theme Theme) error {
	if !theme.Valid() {
		return &ValidationError{Field: "theme", Reason: fmt.Sprintf("unknown theme %q", theme)}
	}

	s.mu.Lock()
	if err := s.prefs.SetPreference(ctx, PrefTheme, string(theme)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to persist %s: %w", PrefTheme, err)
	}
	s.current.Theme = theme
	listeners := append([]ThemeListener(nil), s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(theme)
	}
	return nil
}

// OnThemeChange registers a listener for persisted theme changes
func (s *SettingsStore) OnThemeChange(fn ThemeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}
