// Package storage selects the document store backend named by configuration.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/tasklist/internal/config"
	pgInfra "github.com/fastygo/tasklist/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/tasklist/internal/infrastructure/redis"
	"github.com/fastygo/tasklist/repository"
	boltStore "github.com/fastygo/tasklist/repository/bolt"
	fileStore "github.com/fastygo/tasklist/repository/file"
	pgStore "github.com/fastygo/tasklist/repository/postgres"
	redisStore "github.com/fastygo/tasklist/repository/redis"
)

// Open connects the configured backend. The caller owns the returned store
// and must Close it.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.DocumentStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	log := logger.With(zap.String("driver", cfg.Store.Driver))

	switch cfg.Store.Driver {
	case config.DriverFile, "":
		store, err := fileStore.Open(cfg.Store.DataDir, map[string]string{
			repository.CollectionUsers: cfg.Store.UsersFile,
			repository.CollectionTasks: cfg.Store.TodosFile,
		}, logger)
		if err != nil {
			return nil, err
		}
		log.Info("document store opened",
			zap.String("users", store.Path(repository.CollectionUsers)),
			zap.String("todos", store.Path(repository.CollectionTasks)))
		return store, nil

	case config.DriverBolt:
		store, err := boltStore.Open(cfg.Bolt.Path, cfg.Bolt.Bucket)
		if err != nil {
			return nil, err
		}
		log.Info("document store opened", zap.String("path", cfg.Bolt.Path))
		return store, nil

	case config.DriverRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("document store opened", zap.String("prefix", cfg.Redis.KeyPrefix))
		return redisStore.NewDocumentStore(client, cfg.Redis.KeyPrefix), nil

	case config.DriverPostgres:
		if err := pgInfra.RunMigrations(cfg.Database, cfg.Migrations, logger); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		log.Info("document store opened")
		return pgStore.NewDocumentStore(pool), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
