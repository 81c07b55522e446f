package migrator

import (
	"context"
	"fmt"
)

// Probe inspects the live schema. Probes only read and are scoped to
// current_schema().
type Probe interface {
	Check(ctx context.Context, db Querier) (bool, error)
	String() string
}

type existsProbe struct {
	desc  string
	query string
	args  []any
}

func (p existsProbe) Check(ctx context.Context, db Querier) (bool, error) {
	var exists bool
	if err := db.QueryRowContext(ctx, p.query, p.args...).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (p existsProbe) String() string { return p.desc }

// ColumnExists holds when table has a column named column.
func ColumnExists(table, column string) Probe {
	return existsProbe{
		desc: fmt.Sprintf("column %s.%s exists", table, column),
		query: `
			SELECT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_schema = current_schema()
				AND table_name = $1
				AND column_name = $2
			)`,
		args: []any{table, column},
	}
}

// TableExists holds when a table named table exists.
func TableExists(table string) Probe {
	return existsProbe{
		desc: fmt.Sprintf("table %s exists", table),
		query: `
			SELECT EXISTS (
				SELECT 1 FROM pg_class c
				JOIN pg_namespace n ON n.oid = c.relnamespace
				WHERE c.relname = $1
				AND n.nspname = current_schema()
				AND c.relkind IN ('r', 'p')
			)`,
		args: []any{table},
	}
}

// TypeExists holds when a type named name exists.
func TypeExists(name string) Probe {
	return existsProbe{
		desc: fmt.Sprintf("type %s exists", name),
		query: `
			SELECT EXISTS (
				SELECT 1 FROM pg_type t
				JOIN pg_namespace n ON n.oid = t.typnamespace
				WHERE t.typname = $1
				AND n.nspname = current_schema()
			)`,
		args: []any{name},
	}
}
