package factory

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/mikey/email-triage/internal/adapters/classifier"
	"github.com/mikey/email-triage/internal/adapters/store"
	"github.com/mikey/email-triage/internal/config"
	"github.com/mikey/email-triage/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newConfig() *config.Config {
	return config.NewFromViper(config.NewEmptyViper())
}

func TestStoreFactory_CreateStore(t *testing.T) {
	ctx := context.Background()

	cfg := newConfig()
	cfg.Set("storage.type", "memory")
	s, err := NewStoreFactory(cfg, zap.NewNop()).CreateStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.MemoryStore{}, s)

	cfg.Set("storage.type", "sqlite")
	cfg.Set("storage.sqlite_path", filepath.Join(t.TempDir(), "triage.db"))
	s, err = NewStoreFactory(cfg, zap.NewNop()).CreateStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.SQLiteStore{}, s)
	require.NoError(t, s.Close())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	cfg.Set("storage.type", "redis")
	cfg.Set("storage.redis_addr", mr.Addr())
	s, err = NewStoreFactory(cfg, zap.NewNop()).CreateStore(ctx)
	require.NoError(t, err)
	assert.IsType(t, &store.RedisStore{}, s)
	require.NoError(t, s.SetPreference(ctx, core.PrefTheme, "light"))
	assert.Equal(t, "light", mr.HGet("email-triage:preferences", core.PrefTheme))
	require.NoError(t, s.Close())

	cfg.Set("storage.type", "tape")
	_, err = NewStoreFactory(cfg, zap.NewNop()).CreateStore(ctx)
	assert.ErrorContains(t, err, "unsupported storage type")
}

func TestStoreFactory_PersistHistory(t *testing.T) {
	cfg := newConfig()
	assert.True(t, NewStoreFactory(cfg, zap.NewNop()).PersistHistory())
	cfg.Set("history.persist", false)
	assert.False(t, NewStoreFactory(cfg, zap.NewNop()).PersistHistory())
}

func TestClassifierFactory(t *testing.T) {
	cfg := newConfig()
	f := NewClassifierFactory(cfg, zap.NewNop())

	c, err := f.CreateClassifier()
	require.NoError(t, err)
	assert.IsType(t, &classifier.HTTPClient{}, c)

	cfg.Set("service.timeout", "whenever")
	_, err = f.CreateClassifier()
	assert.Error(t, err)

	cfg.Set("service.timeout", "1s")
	cfg.Set("service.base_url", "")
	_, err = f.CreateClassifier()
	assert.Error(t, err)
}

func TestClassifierFactory_CreateValidator(t *testing.T) {
	cfg := newConfig()
	cfg.Set("upload.extensions", []string{".txt"})
	cfg.Set("upload.media_types", []string{"text/plain"})
	cfg.Set("upload.max_bytes", 8)
	cfg.Set("input.min_content_chars", 3)
	v := NewClassifierFactory(cfg, zap.NewNop()).CreateValidator()

	assert.NoError(t, v.Validate(core.TextInput("abc", "")))
	assert.Error(t, v.Validate(core.TextInput("ab", "")))

	pdf := &core.FileBlob{Name: "a.pdf", ContentType: "application/pdf", Data: []byte("%PDF")}
	assert.Error(t, v.Validate(core.FileInput(pdf, "")))

	big := &core.FileBlob{Name: "a.txt", ContentType: "text/plain", Data: []byte("123456789")}
	assert.Error(t, v.Validate(core.FileInput(big, "")))
}
