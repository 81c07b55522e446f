package ddl

import (
	"fmt"
	"strings"
)

// Insert writes literal rows, typically seed data for lookup tables.
// When OnConflict is set, rows colliding on those columns are skipped.
type Insert struct {
	Table      string
	Columns    []string
	Rows       [][]any
	OnConflict []string
}

// SQL renders the INSERT statement with one VALUES tuple per row.
func (i Insert) SQL() string {
	tuples := make([]string, len(i.Rows))
	for n, row := range i.Rows {
		vals := make([]string, len(row))
		for j, v := range row {
			vals[j] = Literal(v)
		}
		tuples[n] = "(" + strings.Join(vals, ", ") + ")"
	}
	return Sqlf(`
		INSERT INTO %s (%s)
		VALUES %s
		%s`,
		Ident(i.Table), identList(i.Columns),
		strings.Join(tuples, ", "),
		Optf(len(i.OnConflict) > 0, "ON CONFLICT (%s) DO NOTHING", identList(i.OnConflict)),
	)
}

// Transactional reports true.
func (i Insert) Transactional() bool { return true }

// Delete removes rows matching a raw predicate. Invert derives one from an
// Insert keyed by OnConflict.
type Delete struct {
	Table string
	Where string
}

// SQL renders the DELETE statement.
func (d Delete) SQL() string {
	return fmt.Sprintf("DELETE FROM %s%s", Ident(d.Table), Optf(d.Where != "", " WHERE %s", d.Where))
}

// Transactional reports true.
func (d Delete) Transactional() bool { return true }
