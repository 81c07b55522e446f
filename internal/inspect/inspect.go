// Package inspect reads the structure of the current schema from the
// PostgreSQL catalogs and compares snapshots.
package inspect

import (
	"context"
	"fmt"
	"sort"

	"github.com/lib/pq"

	"github.com/pthm/strata/pkg/ddl"
	"github.com/pthm/strata/pkg/migrator"
)

// Snapshot is the structure of one schema at a point in time.
type Snapshot struct {
	Tables map[string]*Table
	Enums  map[string][]string
}

// Table is a table with its columns, constraints and indexes, each keyed by
// name.
type Table struct {
	Name        string
	Columns     map[string]Column
	Constraints map[string]Constraint
	Indexes     map[string]string
}

// Column is a column definition as the catalog reports it.
type Column struct {
	Name    string
	Type    string
	NotNull bool
	Default string
}

// Constraint is a table constraint. Type is the pg_constraint.contype code
// (p, u, f, c, ...).
type Constraint struct {
	Name       string
	Type       string
	Definition string
}

// ForeignKey is a single-column foreign key with its delete rule.
type ForeignKey struct {
	Name      string
	Table     string
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  ddl.Action
}

func (fk ForeignKey) String() string {
	return fmt.Sprintf("%s.%s -> %s.%s ON DELETE %s", fk.Table, fk.Column, fk.RefTable, fk.RefColumn, fk.OnDelete)
}

// Inspect snapshots current_schema(). Tables named in exclude (typically the
// migration log) are left out.
func Inspect(ctx context.Context, db migrator.Querier, exclude ...string) (*Snapshot, error) {
	skip := make(map[string]bool, len(exclude))
	for _, t := range exclude {
		skip[t] = true
	}
	snap := &Snapshot{Tables: map[string]*Table{}, Enums: map[string][]string{}}

	if err := snap.loadColumns(ctx, db, skip); err != nil {
		return nil, err
	}
	if err := snap.loadConstraints(ctx, db); err != nil {
		return nil, err
	}
	if err := snap.loadIndexes(ctx, db); err != nil {
		return nil, err
	}
	if err := snap.loadEnums(ctx, db); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Snapshot) loadColumns(ctx context.Context, db migrator.Querier, skip map[string]bool) error {
	rows, err := db.QueryContext(ctx, `
		SELECT c.relname, a.attname, format_type(a.atttypid, a.atttypmod), a.attnotnull,
			COALESCE(pg_get_expr(d.adbin, d.adrelid), '')
		FROM pg_attribute a
		JOIN pg_class c ON c.oid = a.attrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		LEFT JOIN pg_attrdef d ON d.adrelid = a.attrelid AND d.adnum = a.attnum
		WHERE n.nspname = current_schema()
		AND c.relkind IN ('r', 'p')
		AND a.attnum > 0
		AND NOT a.attisdropped
	`)
	if err != nil {
		return fmt.Errorf("querying columns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var table string
		var col Column
		if err := rows.Scan(&table, &col.Name, &col.Type, &col.NotNull, &col.Default); err != nil {
			return fmt.Errorf("scanning column: %w", err)
		}
		if skip[table] {
			continue
		}
		s.table(table).Columns[col.Name] = col
	}
	return rows.Err()
}

func (s *Snapshot) loadConstraints(ctx context.Context, db migrator.Querier) error {
	rows, err := db.QueryContext(ctx, `
		SELECT c.relname, con.conname, con.contype::text, pg_get_constraintdef(con.oid)
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		WHERE n.nspname = current_schema()
	`)
	if err != nil {
		return fmt.Errorf("querying constraints: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var table string
		var con Constraint
		if err := rows.Scan(&table, &con.Name, &con.Type, &con.Definition); err != nil {
			return fmt.Errorf("scanning constraint: %w", err)
		}
		if t, ok := s.Tables[table]; ok {
			t.Constraints[con.Name] = con
		}
	}
	return rows.Err()
}

func (s *Snapshot) loadIndexes(ctx context.Context, db migrator.Querier) error {
	rows, err := db.QueryContext(ctx, `
		SELECT tablename, indexname, indexdef
		FROM pg_indexes
		WHERE schemaname = current_schema()
	`)
	if err != nil {
		return fmt.Errorf("querying indexes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var table, name, def string
		if err := rows.Scan(&table, &name, &def); err != nil {
			return fmt.Errorf("scanning index: %w", err)
		}
		if t, ok := s.Tables[table]; ok {
			t.Indexes[name] = def
		}
	}
	return rows.Err()
}

func (s *Snapshot) loadEnums(ctx context.Context, db migrator.Querier) error {
	rows, err := db.QueryContext(ctx, `
		SELECT t.typname, array_agg(e.enumlabel::text ORDER BY e.enumsortorder)
		FROM pg_type t
		JOIN pg_enum e ON e.enumtypid = t.oid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = current_schema()
		GROUP BY t.typname
	`)
	if err != nil {
		return fmt.Errorf("querying enum types: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var name string
		var labels []string
		if err := rows.Scan(&name, pq.Array(&labels)); err != nil {
			return fmt.Errorf("scanning enum type: %w", err)
		}
		s.Enums[name] = labels
	}
	return rows.Err()
}

func (s *Snapshot) table(name string) *Table {
	t, ok := s.Tables[name]
	if !ok {
		t = &Table{
			Name:        name,
			Columns:     map[string]Column{},
			Constraints: map[string]Constraint{},
			Indexes:     map[string]string{},
		}
		s.Tables[name] = t
	}
	return t
}

// HasTable reports whether the snapshot contains table.
func (s *Snapshot) HasTable(name string) bool {
	_, ok := s.Tables[name]
	return ok
}

// HasColumn reports whether table has column.
func (s *Snapshot) HasColumn(table, column string) bool {
	t, ok := s.Tables[table]
	if !ok {
		return false
	}
	_, ok = t.Columns[column]
	return ok
}

// HasEnum reports whether the enum type exists.
func (s *Snapshot) HasEnum(name string) bool {
	_, ok := s.Enums[name]
	return ok
}

// TableNames returns the table names in sorted order.
func (s *Snapshot) TableNames() []string {
	names := make([]string, 0, len(s.Tables))
	for n := range s.Tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ForeignKeys reads every single-column foreign key in current_schema(),
// sorted by table and column.
func ForeignKeys(ctx context.Context, db migrator.Querier) ([]ForeignKey, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT con.conname, c.relname, a.attname, rc.relname, ra.attname, con.confdeltype::text
		FROM pg_constraint con
		JOIN pg_class c ON c.oid = con.conrelid
		JOIN pg_namespace n ON n.oid = c.relnamespace
		JOIN pg_class rc ON rc.oid = con.confrelid
		JOIN pg_attribute a ON a.attrelid = con.conrelid AND a.attnum = con.conkey[1]
		JOIN pg_attribute ra ON ra.attrelid = con.confrelid AND ra.attnum = con.confkey[1]
		WHERE con.contype = 'f'
		AND n.nspname = current_schema()
		ORDER BY c.relname, a.attname
	`)
	if err != nil {
		return nil, fmt.Errorf("querying foreign keys: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var fks []ForeignKey
	for rows.Next() {
		var fk ForeignKey
		var rule string
		if err := rows.Scan(&fk.Name, &fk.Table, &fk.Column, &fk.RefTable, &fk.RefColumn, &rule); err != nil {
			return nil, fmt.Errorf("scanning foreign key: %w", err)
		}
		if fk.OnDelete, err = ddl.ParseAction(rule); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}
