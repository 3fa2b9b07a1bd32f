// Package database picks the customer store named by configuration.
package database

import (
	"context"
	"fmt"
	"log/slog"

	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/infrastructure/database/gormstore"
	"customer-service/internal/infrastructure/database/memory"
	"customer-service/internal/infrastructure/database/postgres"
)

// Store is an opened repository together with the function releasing its
// connections.
type Store struct {
	Repository customer.Repository
	Close      func()
}

func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Store, error) {
	logger.Info("Opening customer store", "backend", cfg.Storage.Backend)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		var initial []customer.Customer
		if cfg.Storage.Fixtures {
			initial = memory.Fixtures()
		}
		return &Store{Repository: memory.NewCustomerRepository(logger, initial...), Close: func() {}}, nil

	case config.BackendPostgres:
		pool, err := postgres.NewConnectionPool(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.EnsureSchema(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, err
		}
		return &Store{
			Repository: postgres.NewCustomerRepository(pool, logger),
			Close: func() {
				logger.Info("Closing database connection pool...")
				pool.Close()
			},
		}, nil

	case config.BackendGorm:
		db, err := gormstore.Open(cfg.Gorm, logger)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("unable to access gorm connection pool: %w", err)
		}
		return &Store{
			Repository: gormstore.NewCustomerRepository(db, logger),
			Close: func() {
				logger.Info("Closing ORM database connection...")
				if err := sqlDB.Close(); err != nil {
					logger.Error("Failed to close ORM database connection", "error", err)
				}
			},
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
}
