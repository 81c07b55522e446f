package migrator

import "context"

// Migrate applies every pending step in one call.
// This is the recommended high-level API for application startup.
//
// The function is idempotent: once the database is at the latest version the
// plan is empty and nothing runs. Each step is applied atomically within a
// transaction when db supports BeginTx.
//
// Example usage on application startup:
//
//	if _, err := migrator.Migrate(ctx, db, steps); err != nil {
//	    log.Fatalf("migration failed: %v", err)
//	}
//
// For dry runs, custom log tables or logging, pass Options or use Migrator
// directly.
func Migrate(ctx context.Context, db Execer, steps []Step, opts ...Option) (*Result, error) {
	return NewMigrator(db, steps, opts...).Up(ctx)
}

// Rollback reverts applied steps down to target. An empty target reverts
// the most recent step; Base reverts everything.
//
// Example: preview the SQL of a full rollback without touching the database
//
//	var buf bytes.Buffer
//	_, err := migrator.Rollback(ctx, db, steps, migrator.Base, migrator.WithDryRun(&buf))
func Rollback(ctx context.Context, db Execer, steps []Step, target string, opts ...Option) (*Result, error) {
	return NewMigrator(db, steps, opts...).DownTo(ctx, target)
}
