package container

import (
	"context"
	"sync"

	"github.com/technurture/backend/config"
	"github.com/technurture/backend/internal/domain/repository"
	"github.com/technurture/backend/internal/infrastructure/memory"
	"github.com/technurture/backend/internal/infrastructure/mongodb"
	"github.com/technurture/backend/internal/infrastructure/postgres"
)

var (
	storageOnce sync.Once
	store       repository.Storage
	storeErr    error
)

// ResolveStorage picks the backend from configuration and memoizes it.
// MONGODB_URI wins over a Postgres DSN, and with neither set the service
// runs entirely in memory. Backend init failures are fatal unless
// STORAGE_FALLBACK_MEMORY opts back into degrading to the memory store.
func ResolveStorage(ctx context.Context, c *config.Config) (repository.Storage, error) {
	storageOnce.Do(func() {
		store, storeErr = buildStorage(ctx, c)
		if storeErr != nil && c.StorageFallbackMemory {
			if logger != nil {
				logger.WithError(storeErr).Warn("storage backend unavailable, falling back to in-memory store")
			}
			store, storeErr = memory.NewStore(c.AdminUsername, c.AdminPassword)
		}
	})
	return store, storeErr
}

func buildStorage(ctx context.Context, c *config.Config) (repository.Storage, error) {
	switch {
	case c.MongoURI != "":
		if logger != nil {
			logger.WithField("backend", "mongodb").Info("using document storage")
		}
		return mongodb.NewStore(ctx, c.MongoURI, c.MongoDB)
	case c.PostgresDSN() != "":
		if logger != nil {
			logger.WithField("backend", "postgres").Info("using relational storage")
		}
		pool, err := postgres.NewPool(ctx, c.PostgresDSN(), c.DBMaxConns, c.DBMinConns, c.DBMaxConnLife)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(pool), nil
	default:
		if logger != nil {
			logger.WithField("backend", "memory").Info("using in-memory storage")
			if c.Env != "development" {
				logger.Warn("in-memory storage seeds a default admin account and loses data on restart; not intended outside development")
			}
		}
		return memory.NewStore(c.AdminUsername, c.AdminPassword)
	}
}
