package migrator

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pthm/strata/pkg/ddl"
)

// DefaultTable is the name of the migration log table.
const DefaultTable = "strata_migrations"

func logDDL(table string) string {
	return ddl.CreateTable{
		Name:        table,
		IfNotExists: true,
		Columns: []ddl.Column{
			{Name: "version", Type: "TEXT", PrimaryKey: true},
			{Name: "name", Type: "TEXT", NotNull: true},
			{Name: "checksum", Type: "TEXT", NotNull: true},
			{Name: "applied_at", Type: "TIMESTAMPTZ", NotNull: true, Default: "now()"},
		},
	}.SQL()
}

// ensureLog creates the migration log table if it doesn't exist.
func (m *Migrator) ensureLog(ctx context.Context, db Execer) error {
	if _, err := db.ExecContext(ctx, logDDL(m.table)); err != nil {
		return fmt.Errorf("creating %s: %w", m.table, err)
	}
	return nil
}

func (m *Migrator) logExists(ctx context.Context, db Querier) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM pg_class c
			JOIN pg_namespace n ON n.oid = c.relnamespace
			WHERE c.relname = $1
			AND n.nspname = current_schema()
		)
	`, m.table).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking %s table: %w", m.table, err)
	}
	return exists, nil
}

// readLog returns the applied steps in ascending version order. A missing
// table reads as an empty log.
func (m *Migrator) readLog(ctx context.Context, db Querier) ([]AppliedStep, error) {
	exists, err := m.logExists(ctx, db)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, fmt.Sprintf(
		"SELECT version, name, checksum, applied_at FROM %s", ddl.Ident(m.table)))
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", m.table, err)
	}
	defer func() { _ = rows.Close() }()

	var applied []AppliedStep
	for rows.Next() {
		var a AppliedStep
		if err := rows.Scan(&a.Version, &a.Name, &a.Checksum, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("scanning %s: %w", m.table, err)
		}
		applied = append(applied, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sortApplied(applied), nil
}

func (m *Migrator) appendLogSQL() string {
	return fmt.Sprintf("INSERT INTO %s (version, name, checksum, applied_at) VALUES ($1, $2, $3, $4)", ddl.Ident(m.table))
}

func (m *Migrator) removeLogSQL() string {
	return fmt.Sprintf("DELETE FROM %s WHERE version = $1", ddl.Ident(m.table))
}

// appendLog records step as applied.
func (m *Migrator) appendLog(ctx context.Context, db Execer, step Step) error {
	_, err := db.ExecContext(ctx, m.appendLogSQL(), step.Version, step.Name, step.Checksum(), m.now().UTC())
	if err != nil {
		return fmt.Errorf("recording %s in %s: %w", step.Version, m.table, err)
	}
	return nil
}

// removeLog removes step from the log. Exactly one row must go.
func (m *Migrator) removeLog(ctx context.Context, db Execer, step Step) error {
	res, err := db.ExecContext(ctx, m.removeLogSQL(), step.Version)
	if err != nil {
		return fmt.Errorf("removing %s from %s: %w", step.Version, m.table, err)
	}
	return expectOneRow(res, step.Version, m.table)
}

func expectOneRow(res sql.Result, version, table string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return nil // driver cannot report affected rows
	}
	if n != 1 {
		return fmt.Errorf("removing %s from %s: %d rows affected", version, table, n)
	}
	return nil
}
