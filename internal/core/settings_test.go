package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapPrefs struct {
	values map[string]string
	getErr error
	setErr error
}

func newMapPrefs(values map[string]string) *mapPrefs {
	if values == nil {
		values = map[string]string{}
	}
	return &mapPrefs{values: values}
}

func (m *mapPrefs) GetPreference(ctx context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapPrefs) SetPreference(ctx context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func TestNewSettingsStore_Defaults(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   Settings
	}{
		{"nothing persisted", nil, Settings{MinutesPerEmail: 2, Theme: ThemeDark}},
		{"valid values", map[string]string{PrefMinutesPerEmail: "15", PrefTheme: "light"}, Settings{MinutesPerEmail: 15, Theme: ThemeLight}},
		{"non numeric minutes", map[string]string{PrefMinutesPerEmail: "abc"}, Settings{MinutesPerEmail: 2, Theme: ThemeDark}},
		{"fractional minutes", map[string]string{PrefMinutesPerEmail: "2.5"}, Settings{MinutesPerEmail: 2, Theme: ThemeDark}},
		{"minutes below range", map[string]string{PrefMinutesPerEmail: "0"}, Settings{MinutesPerEmail: 2, Theme: ThemeDark}},
		{"minutes above range", map[string]string{PrefMinutesPerEmail: "61"}, Settings{MinutesPerEmail: 2, Theme: ThemeDark}},
		{"unknown theme", map[string]string{PrefTheme: "solarized"}, Settings{MinutesPerEmail: 2, Theme: ThemeDark}},
		{"boundaries", map[string]string{PrefMinutesPerEmail: "60", PrefTheme: "dark"}, Settings{MinutesPerEmail: 60, Theme: ThemeDark}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSettingsStore(context.Background(), newMapPrefs(tt.values), nil)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.Get())
		})
	}
}

func TestNewSettingsStore_ReadError(t *testing.T) {
	prefs := newMapPrefs(nil)
	prefs.getErr = errors.New("connection refused")

	_, err := NewSettingsStore(context.Background(), prefs, nil)
	assert.Error(t, err)
}

func TestSetMinutesPerEmail_ClampsAndRounds(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 1},
		{-5, 1},
		{100, 60},
		{5.7, 6},
		{5.4, 5},
		{0.4, 1},
		{60.4, 60},
		{30, 30},
	}

	for _, tt := range tests {
		prefs := newMapPrefs(nil)
		s, err := NewSettingsStore(context.Background(), prefs, nil)
		require.NoError(t, err)

		got, err := s.SetMinutesPerEmail(context.Background(), tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %v", tt.in)
		assert.Equal(t, tt.want, s.Get().MinutesPerEmail)

		reloaded, err := NewSettingsStore(context.Background(), prefs, nil)
		require.NoError(t, err)
		assert.Equal(t, tt.want, reloaded.Get().MinutesPerEmail, "persisted value for input %v", tt.in)
	}
}

func TestSetMinutesPerEmail_PersistFailureKeepsOldValue(t *testing.T) {
	prefs := newMapPrefs(map[string]string{PrefMinutesPerEmail: "7"})
	s, err := NewSettingsStore(context.Background(), prefs, nil)
	require.NoError(t, err)

	prefs.setErr = errors.New("read-only")
	got, err := s.SetMinutesPerEmail(context.Background(), 20)
	assert.Error(t, err)
	assert.Equal(t, 7, got)
	assert.Equal(t, 7, s.Get().MinutesPerEmail)
}

func TestSetTheme(t *testing.T) {
	prefs := newMapPrefs(nil)
	s, err := NewSettingsStore(context.Background(), prefs, nil)
	require.NoError(t, err)

	var notified []Theme
	s.OnThemeChange(func(th Theme) { notified = append(notified, th) })

	require.NoError(t, s.SetTheme(context.Background(), ThemeLight))
	assert.Equal(t, ThemeLight, s.Get().Theme)
	assert.Equal(t, "light", prefs.values[PrefTheme])
	assert.Equal(t, []Theme{ThemeLight}, notified)

	err = s.SetTheme(context.Background(), Theme("sepia"))
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, ThemeLight, s.Get().Theme)
	assert.Len(t, notified, 1)
}

func TestSetTheme_PersistFailureSkipsListeners(t *testing.T) {
	prefs := newMapPrefs(nil)
	s, err := NewSettingsStore(context.Background(), prefs, nil)
	require.NoError(t, err)

	called := false
	s.OnThemeChange(func(Theme) { called = true })
	prefs.setErr = errors.New("read-only")

	assert.Error(t, s.SetTheme(context.Background(), ThemeLight))
	assert.False(t, called)
	assert.Equal(t, ThemeDark, s.Get().Theme)
}
