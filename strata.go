// Package strata evolves the CRM PostgreSQL schema through an ordered stack
// of reversible migration steps.
//
// # Module Structure
//
//   - github.com/pthm/strata (this package): the compiled CRM sequence and
//     one-call helpers for application startup.
//   - github.com/pthm/strata/pkg/migrator: the engine. Planning, execution,
//     the applied log and typed errors. Usable with any step sequence.
//   - github.com/pthm/strata/pkg/ddl: declarative PostgreSQL DDL statements
//     and their inverses.
//
// # Basic Usage
//
//	if _, err := strata.MigrateUp(ctx, db); err != nil {
//		log.Fatalf("migration failed: %v", err)
//	}
//
// # Transaction Support
//
// Each step runs in its own transaction when db is a *sql.DB or *sql.Conn.
// Passing a *sql.Tx runs every step on the caller's transaction, so the whole
// run commits or rolls back with it:
//
//	tx, _ := db.BeginTx(ctx, nil)
//	_, err := strata.MigrateUp(ctx, tx)
//	// tx.Commit() or tx.Rollback()
//
// # Reverting
//
//	strata.MigrateDown(ctx, db)                 // most recent step
//	strata.MigrateDownTo(ctx, db, "20240116090000")
//	strata.MigrateDownTo(ctx, db, strata.Base)  // everything
package strata

import (
	"context"

	"github.com/pthm/strata/internal/migrations"
	"github.com/pthm/strata/pkg/migrator"
)

// Base is the target that reverts every applied step.
const Base = migrator.Base

// Steps returns the CRM migration sequence in version order.
func Steps() []migrator.Step {
	return migrations.All()
}

// Latest returns the newest version in the sequence.
func Latest() string {
	return migrations.Latest()
}

// NewMigrator returns a migrator over the CRM sequence.
func NewMigrator(db migrator.Execer, opts ...migrator.Option) *migrator.Migrator {
	return migrator.NewMigrator(db, migrations.All(), opts...)
}

// MigrateUp applies every pending step. It is a no-op once the database is
// at Latest.
func MigrateUp(ctx context.Context, db migrator.Execer, opts ...migrator.Option) (*migrator.Result, error) {
	return NewMigrator(db, opts...).Up(ctx)
}

// MigrateDown reverts the most recently applied step.
func MigrateDown(ctx context.Context, db migrator.Execer, opts ...migrator.Option) (*migrator.Result, error) {
	return NewMigrator(db, opts...).Down(ctx)
}

// MigrateDownTo reverts applied steps until target is the most recent one.
// Base reverts everything.
func MigrateDownTo(ctx context.Context, db migrator.Execer, target string, opts ...migrator.Option) (*migrator.Result, error) {
	return NewMigrator(db, opts...).DownTo(ctx, target)
}
