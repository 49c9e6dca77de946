// Package storage opens the configured definition store.
package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/execution-hub/definition-registry/internal/config"
	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/infrastructure/postgres"
	"github.com/execution-hub/definition-registry/internal/infrastructure/sqlquery"
	"github.com/execution-hub/definition-registry/internal/infrastructure/sqlstore"
)

// Store is an open repository together with its connection lifecycle.
type Store struct {
	Dialect sqlquery.Dialect
	Repo    definition.Repository
	Ping    func(context.Context) error
	Close   func()
}

// Open connects to the database named by cfg. When migrate is set the schema
// is brought up to date before the repository is returned.
func Open(ctx context.Context, cfg config.Database, migrate bool, logger zerolog.Logger) (*Store, error) {
	dialect, err := sqlquery.ParseDialect(cfg.Driver)
	if err != nil {
		return nil, err
	}

	if dialect == sqlquery.Postgres {
		pool, err := postgres.NewPool(ctx, cfg.URL, int32(cfg.MaxConns))
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		if migrate {
			if err := postgres.RunMigrations(pool); err != nil {
				pool.Close()
				return nil, fmt.Errorf("failed to migrate postgres: %w", err)
			}
			logger.Info().Str("driver", string(dialect)).Msg("migrations applied")
		}
		return &Store{
			Dialect: dialect,
			Repo:    postgres.NewDefinitionRepository(pool, cfg.QueryTimeout),
			Ping:    pool.Ping,
			Close:   pool.Close,
		}, nil
	}

	db, err := sqlstore.Open(ctx, dialect, cfg.URL, cfg.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", dialect, err)
	}
	if migrate {
		if err := sqlstore.Migrate(db, dialect, cfg.URL); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to migrate %s: %w", dialect, err)
		}
		logger.Info().Str("driver", string(dialect)).Msg("migrations applied")
	}
	return &Store{
		Dialect: dialect,
		Repo:    sqlstore.NewDefinitionRepository(db, dialect, cfg.QueryTimeout),
		Ping:    db.PingContext,
		Close:   func() { _ = db.Close() },
	}, nil
}
