// Package sqlstore implements definition.Repository on MySQL and SQLite
// through database/sql and sqlx.
package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	_ "github.com/golang-migrate/migrate/v4/database/mysql"

	"github.com/execution-hub/definition-registry/internal/domain/definition"
	"github.com/execution-hub/definition-registry/internal/infrastructure/sqlquery"
	"github.com/execution-hub/definition-registry/internal/migrations"
)

// Open connects to dsn and verifies the connection. A positive maxOpen caps
// the MySQL pool; SQLite always uses a single connection.
func Open(ctx context.Context, dialect sqlquery.Dialect, dsn string, maxOpen int) (*sqlx.DB, error) {
	var driverName string
	switch dialect {
	case sqlquery.MySQL:
		normalized, err := NormalizeMySQLDSN(dsn)
		if err != nil {
			return nil, err
		}
		dsn, driverName = normalized, "mysql"
	case sqlquery.SQLite:
		driverName = "sqlite"
	default:
		return nil, definition.InvalidArgumentf("sqlstore does not serve dialect %q", dialect)
	}

	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}
	if dialect == sqlquery.SQLite {
		// One connection keeps an in-memory database alive and serialises writers.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
		db.SetConnMaxIdleTime(0)
	} else if maxOpen > 0 {
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(maxOpen)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, translate(err))
	}
	return db, nil
}

// NormalizeMySQLDSN forces time parsing in UTC, which the repository relies on
// to scan DATETIME columns.
func NormalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", definition.InvalidArgumentf("invalid mysql dsn: %v", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// Migrate applies the embedded schema for dialect. MySQL migrations run on a
// dedicated connection opened from dsn; SQLite reuses db so in-memory
// databases see the schema.
func Migrate(db *sqlx.DB, dialect sqlquery.Dialect, dsn string) error {
	source, err := iofs.New(migrations.Files, string(dialect))
	if err != nil {
		return fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	switch dialect {
	case sqlquery.MySQL:
		normalized, err := NormalizeMySQLDSN(dsn)
		if err != nil {
			return err
		}
		m, err := migrate.NewWithSourceInstance("iofs", source, "mysql://"+normalized)
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
		defer func() {
			_, _ = m.Close()
		}()
		return up(m)
	case sqlquery.SQLite:
		driver, err := migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("failed to initialise migrate driver: %w", err)
		}
		m, err := migrate.NewWithInstance("iofs", source, "sqlite", driver)
		if err != nil {
			return fmt.Errorf("failed to create migrator: %w", err)
		}
		return up(m)
	default:
		return definition.InvalidArgumentf("sqlstore does not serve dialect %q", dialect)
	}
}

func up(m *migrate.Migrate) error {
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
