package ddl

import (
	"fmt"
	"strings"
)

// Column describes a table column.
type Column struct {
	Name       string
	Type       string
	NotNull    bool
	PrimaryKey bool
	Unique     bool

	// Default is a raw SQL expression, e.g. "now()" or "'employee'".
	Default string

	// References adds an inline foreign key. PostgreSQL names it
	// <table>_<column>_fkey.
	References *Reference
}

// Reference is the target of an inline foreign key.
type Reference struct {
	Table    string
	Column   string
	OnDelete Action
}

// SQL renders the column definition as used in CREATE TABLE and ADD COLUMN.
func (c Column) SQL() string {
	var b strings.Builder
	b.WriteString(Ident(c.Name))
	b.WriteString(" ")
	b.WriteString(c.Type)
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.NotNull && !c.PrimaryKey {
		b.WriteString(" NOT NULL")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.Default != "" {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default)
	}
	if r := c.References; r != nil {
		col := r.Column
		if col == "" {
			col = "id"
		}
		fmt.Fprintf(&b, " REFERENCES %s (%s) ON DELETE %s", Ident(r.Table), Ident(col), r.OnDelete)
	}
	return b.String()
}

// Constraint is a table-level constraint.
type Constraint interface {
	// ConstraintName returns the explicit name, or "" to let PostgreSQL pick one.
	ConstraintName() string
	// ConstraintSQL renders the constraint clause.
	ConstraintSQL() string
}

// ForeignKey is a table-level foreign key constraint.
type ForeignKey struct {
	Name       string
	Columns    []string
	RefTable   string
	RefColumns []string
	OnDelete   Action
}

// ConstraintName returns the constraint name.
func (f ForeignKey) ConstraintName() string { return f.Name }

// ConstraintSQL renders the FOREIGN KEY clause.
func (f ForeignKey) ConstraintSQL() string {
	refCols := f.RefColumns
	if len(refCols) == 0 {
		refCols = []string{"id"}
	}
	return fmt.Sprintf("%sFOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE %s",
		constraintPrefix(f.Name), identList(f.Columns), Ident(f.RefTable), identList(refCols), f.OnDelete)
}

// UniqueKey is a table-level UNIQUE constraint.
type UniqueKey struct {
	Name    string
	Columns []string
}

// ConstraintName returns the constraint name.
func (u UniqueKey) ConstraintName() string { return u.Name }

// ConstraintSQL renders the UNIQUE clause.
func (u UniqueKey) ConstraintSQL() string {
	return fmt.Sprintf("%sUNIQUE (%s)", constraintPrefix(u.Name), identList(u.Columns))
}

// Check is a table-level CHECK constraint.
type Check struct {
	Name string
	Expr string
}

// ConstraintName returns the constraint name.
func (c Check) ConstraintName() string { return c.Name }

// ConstraintSQL renders the CHECK clause.
func (c Check) ConstraintSQL() string {
	return fmt.Sprintf("%sCHECK (%s)", constraintPrefix(c.Name), c.Expr)
}

func constraintPrefix(name string) string {
	return Optf(name != "", "CONSTRAINT %s ", Ident(name))
}

// CreateTable creates a table.
type CreateTable struct {
	Name        string
	IfNotExists bool
	Columns     []Column
	Constraints []Constraint
}

// SQL renders the CREATE TABLE statement, one column per line.
func (t CreateTable) SQL() string {
	parts := make([]string, 0, len(t.Columns)+len(t.Constraints))
	for _, c := range t.Columns {
		parts = append(parts, "    "+c.SQL())
	}
	for _, c := range t.Constraints {
		parts = append(parts, "    "+c.ConstraintSQL())
	}
	return fmt.Sprintf("CREATE TABLE %s%s (\n%s\n)",
		Optf(t.IfNotExists, "IF NOT EXISTS "), Ident(t.Name), strings.Join(parts, ",\n"))
}

// Transactional reports true.
func (t CreateTable) Transactional() bool { return true }

// DropTable drops a table.
type DropTable struct {
	Name     string
	IfExists bool
	Cascade  bool
}

// SQL renders the DROP TABLE statement.
func (t DropTable) SQL() string {
	return fmt.Sprintf("DROP TABLE %s%s%s", Optf(t.IfExists, "IF EXISTS "), Ident(t.Name), Optf(t.Cascade, " CASCADE"))
}

// Transactional reports true.
func (t DropTable) Transactional() bool { return true }
