package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/pthm/strata/internal/advisory"
	"github.com/pthm/strata/internal/cli"
	"github.com/pthm/strata/internal/migrations"
	"github.com/pthm/strata/pkg/migrator"
)

const connectTimeout = 10 * time.Second

// resolveDSN gets the database DSN from flag or config.
func resolveDSN() (string, error) {
	if dbURL != "" {
		return dbURL, nil
	}

	dsn, err := cfg.DSN()
	if err != nil {
		return "", cli.ConfigError("database configuration", err)
	}
	if dsn == "" {
		return "", cli.ConfigError("database URL is required (use --db or set in config)", nil)
	}
	return dsn, nil
}

// openDB opens and pings the configured database.
func openDB(ctx context.Context) (*sql.DB, error) {
	dsn, err := resolveDSN()
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, cli.DBConnectError("connecting to database", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, cli.DBConnectError("connecting to database", err)
	}
	logger.Debug("connected to database", "driver", cfg.Database.Driver)
	return db, nil
}

// newMigrator builds a migrator over the compiled CRM sequence.
func newMigrator(db migrator.Execer, opts ...migrator.Option) *migrator.Migrator {
	base := []migrator.Option{
		migrator.WithLogger(logger),
		migrator.WithTable(cfg.Migrate.Table),
	}
	return migrator.NewMigrator(db, migrations.All(), append(base, opts...)...)
}

// withLock runs fn while holding the migration advisory lock when enabled.
func withLock(ctx context.Context, db *sql.DB, enabled bool, fn func() error) error {
	if !enabled {
		return fn()
	}

	lock, err := advisory.TryAcquire(ctx, db, cfg.Migrate.LockKey)
	if err != nil {
		if !errors.Is(err, advisory.ErrLocked) {
			return cli.DBConnectError("acquiring migration lock", err)
		}
		logger.Info("waiting for migration lock", "key", cfg.Migrate.LockKey)
		lock, err = advisory.Acquire(ctx, db, cfg.Migrate.LockKey)
		if err != nil {
			return cli.DBConnectError("acquiring migration lock", err)
		}
	}
	logger.Debug("acquired migration lock", "key", lock.Key(), "id", lock.ID())

	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("releasing migration lock", "error", err)
		}
	}()
	return fn()
}
