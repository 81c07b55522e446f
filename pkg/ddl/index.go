package ddl

import (
	"fmt"
	"strings"
)

// CreateIndex creates an index. Where adds a partial-index predicate.
type CreateIndex struct {
	Name         string
	Table        string
	Columns      []string
	Unique       bool
	IfNotExists  bool
	Concurrently bool
	Where        string
}

// SQL renders the CREATE INDEX statement.
func (i CreateIndex) SQL() string {
	return fmt.Sprintf("CREATE %sINDEX %s%s%s ON %s (%s)%s",
		Optf(i.Unique, "UNIQUE "),
		Optf(i.Concurrently, "CONCURRENTLY "),
		Optf(i.IfNotExists, "IF NOT EXISTS "),
		Ident(i.Name),
		Ident(i.Table),
		identList(i.Columns),
		Optf(i.Where != "", " WHERE %s", i.Where),
	)
}

// Transactional reports false for CONCURRENTLY builds.
func (i CreateIndex) Transactional() bool { return !i.Concurrently }

// DropIndex drops an index.
type DropIndex struct {
	Name         string
	IfExists     bool
	Concurrently bool
}

// SQL renders the DROP INDEX statement.
func (d DropIndex) SQL() string {
	return fmt.Sprintf("DROP INDEX %s%s%s", Optf(d.Concurrently, "CONCURRENTLY "), Optf(d.IfExists, "IF EXISTS "), Ident(d.Name))
}

// Transactional reports false for CONCURRENTLY drops.
func (d DropIndex) Transactional() bool { return !d.Concurrently }

// CreateEnum creates an enumerated type.
type CreateEnum struct {
	Name   string
	Values []string
}

// SQL renders CREATE TYPE ... AS ENUM.
func (e CreateEnum) SQL() string {
	vals := make([]string, len(e.Values))
	for i, v := range e.Values {
		vals[i] = Literal(v)
	}
	return fmt.Sprintf("CREATE TYPE %s AS ENUM (%s)", Ident(e.Name), strings.Join(vals, ", "))
}

// Transactional reports true.
func (e CreateEnum) Transactional() bool { return true }

// DropEnum drops an enumerated type. It fails while any column still uses it.
type DropEnum struct {
	Name     string
	IfExists bool
}

// SQL renders DROP TYPE.
func (d DropEnum) SQL() string {
	return fmt.Sprintf("DROP TYPE %s%s", Optf(d.IfExists, "IF EXISTS "), Ident(d.Name))
}

// Transactional reports true.
func (d DropEnum) Transactional() bool { return true }

// AddEnumValue appends a label to an existing enumerated type.
// The new label cannot be used in the transaction that adds it, so the
// statement is treated as non-transactional.
type AddEnumValue struct {
	Type        string
	Value       string
	IfNotExists bool
}

// SQL renders ALTER TYPE ... ADD VALUE.
func (a AddEnumValue) SQL() string {
	return fmt.Sprintf("ALTER TYPE %s ADD VALUE %s%s", Ident(a.Type), Optf(a.IfNotExists, "IF NOT EXISTS "), Literal(a.Value))
}

// Transactional reports false.
func (a AddEnumValue) Transactional() bool { return false }
