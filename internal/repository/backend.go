package repository

import (
	"context"
	"fmt"
	"time"

	"workflowAdvisor/business/bandit"
	psqlRepo "workflowAdvisor/internal/repository/postgres"
	redisRepo "workflowAdvisor/internal/repository/redis"
	sqliteRepo "workflowAdvisor/internal/repository/sqlite"
	"workflowAdvisor/pkg/config"
	"workflowAdvisor/pkg/database"
	redisClient "workflowAdvisor/pkg/database/redis"
	"workflowAdvisor/pkg/logger"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Backend is an opened persistence backend. Events is set only for postgres,
// which also keeps the feedback audit log.
type Backend struct {
	Name    string
	Gateway bandit.PersistenceGateway
	Events  *psqlRepo.BanditRepository
	closers []func() error
}

// EngineOptions returns the engine options the backend contributes.
func (b *Backend) EngineOptions() []bandit.Option {
	if b.Events == nil {
		return nil
	}
	return []bandit.Option{bandit.WithEventLog(b.Events)}
}

func (b *Backend) Close() {
	for _, fn := range b.closers {
		if err := fn(); err != nil {
			logger.Warn("Failed to close backend", "backend", b.Name, "error", err)
		}
	}
}

// OpenBackend connects the snapshot gateway selected by
// cfg.Persistence.Backend. The postgres tables are migrated on open.
func OpenBackend(ctx context.Context, cfg *config.Config) (*Backend, error) {
	name := cfg.Persistence.SnapshotName
	b := &Backend{Name: cfg.Persistence.Backend}

	switch cfg.Persistence.Backend {
	case BackendMemory:
		b.Gateway = bandit.NewInMemoryGateway()
		return b, nil

	case BackendSQLite:
		db, err := database.OpenSQLite(cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		store, err := sqliteRepo.NewSnapshotStore(db, name)
		if err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("SQLite connected successfully", "path", cfg.SQLite.Path)
		b.Gateway = store
		b.closers = append(b.closers, db.Close)
		return b, nil

	case BackendPostgres:
		db, err := database.InitPostgres(cfg)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		b.closers = append(b.closers, sqlDB.Close)

		repo := psqlRepo.NewBanditRepository(db, name)
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := repo.Migrate(migrateCtx); err != nil {
			b.Close()
			return nil, err
		}
		logger.Info("Database connected successfully")
		b.Gateway = repo
		b.Events = repo
		return b, nil

	case BackendRedis:
		client, err := redisClient.NewRedisClient(cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("Redis connected successfully")
		b.Gateway = redisRepo.NewSnapshotRepository(client, name, 0)
		b.closers = append(b.closers, func() error { return redisClient.CloseRedisClient(client) })
		return b, nil
	}

	return nil, fmt.Errorf("unknown persistence backend %q", cfg.Persistence.Backend)
}
