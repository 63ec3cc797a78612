package factory

import (
	"context"
	"fmt"

	"github.com/mikey/email-triage/internal/adapters/store"
	"github.com/mikey/email-triage/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StoreFactory creates stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateStore creates a store based on the configuration
func (f *StoreFactory) CreateStore(ctx context.Context) (store.Store, error) {
	storage := f.cfg.GetStorage()

	switch storage.Type {
	case "memory":
		return store.NewMemoryStore(f.logger), nil
	case "sqlite":
		return store.NewSQLiteStore(ctx, storage.SQLitePath, f.logger)
	case "mysql":
		return store.NewMySQLStore(ctx, storage.MySQLDSN, f.logger)
	case "redis":
		return store.NewRedisStore(ctx, &redis.Options{
			Addr:     storage.RedisAddr,
			Password: storage.RedisPassword,
			DB:       storage.RedisDB,
		}, storage.RedisPrefix, f.logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storage.Type)
	}
}

// PersistHistory returns whether the ledger is mirrored to the store
func (f *StoreFactory) PersistHistory() bool {
	return f.cfg.GetStorage().PersistHistory
}
