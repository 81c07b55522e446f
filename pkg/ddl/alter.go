package ddl

import "fmt"

// AddColumn adds a column to an existing table.
type AddColumn struct {
	Table       string
	Column      Column
	IfNotExists bool
}

// SQL renders ALTER TABLE ... ADD COLUMN.
func (a AddColumn) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s%s", Ident(a.Table), Optf(a.IfNotExists, "IF NOT EXISTS "), a.Column.SQL())
}

// Transactional reports true.
func (a AddColumn) Transactional() bool { return true }

// DropColumn removes a column.
type DropColumn struct {
	Table    string
	Column   string
	IfExists bool
}

// SQL renders ALTER TABLE ... DROP COLUMN.
func (d DropColumn) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s DROP COLUMN %s%s", Ident(d.Table), Optf(d.IfExists, "IF EXISTS "), Ident(d.Column))
}

// Transactional reports true.
func (d DropColumn) Transactional() bool { return true }

// SetNotNull tightens a column to NOT NULL. Fails if any row holds NULL.
type SetNotNull struct {
	Table  string
	Column string
}

// SQL renders ALTER COLUMN ... SET NOT NULL.
func (s SetNotNull) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET NOT NULL", Ident(s.Table), Ident(s.Column))
}

// Transactional reports true.
func (s SetNotNull) Transactional() bool { return true }

// DropNotNull relaxes a column to allow NULL.
type DropNotNull struct {
	Table  string
	Column string
}

// SQL renders ALTER COLUMN ... DROP NOT NULL.
func (d DropNotNull) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP NOT NULL", Ident(d.Table), Ident(d.Column))
}

// Transactional reports true.
func (d DropNotNull) Transactional() bool { return true }

// SetDefault sets a column default to a raw SQL expression.
type SetDefault struct {
	Table  string
	Column string
	Expr   string
}

// SQL renders ALTER COLUMN ... SET DEFAULT.
func (s SetDefault) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s", Ident(s.Table), Ident(s.Column), s.Expr)
}

// Transactional reports true.
func (s SetDefault) Transactional() bool { return true }

// DropDefault removes a column default.
type DropDefault struct {
	Table  string
	Column string
}

// SQL renders ALTER COLUMN ... DROP DEFAULT.
func (d DropDefault) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT", Ident(d.Table), Ident(d.Column))
}

// Transactional reports true.
func (d DropDefault) Transactional() bool { return true }

// AddConstraint adds a table-level constraint to an existing table.
type AddConstraint struct {
	Table      string
	Constraint Constraint
}

// SQL renders ALTER TABLE ... ADD CONSTRAINT.
func (a AddConstraint) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s ADD %s", Ident(a.Table), a.Constraint.ConstraintSQL())
}

// Transactional reports true.
func (a AddConstraint) Transactional() bool { return true }

// DropConstraint removes a named constraint.
type DropConstraint struct {
	Table    string
	Name     string
	IfExists bool
}

// SQL renders ALTER TABLE ... DROP CONSTRAINT.
func (d DropConstraint) SQL() string {
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s%s", Ident(d.Table), Optf(d.IfExists, "IF EXISTS "), Ident(d.Name))
}

// Transactional reports true.
func (d DropConstraint) Transactional() bool { return true }
