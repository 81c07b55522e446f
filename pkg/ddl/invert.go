package ddl

import (
	"fmt"
	"strings"
)

// Invert returns the statement that undoes stmt, if one can be derived from
// the statement alone. Drops are never invertible because the dropped
// definition is not known. An Insert inverts to a Delete only when its
// OnConflict columns identify the seeded rows.
func Invert(stmt Statement) (Statement, bool) {
	switch s := stmt.(type) {
	case CreateTable:
		return DropTable{Name: s.Name, IfExists: s.IfNotExists}, true
	case CreateIndex:
		return DropIndex{Name: s.Name, IfExists: s.IfNotExists, Concurrently: s.Concurrently}, true
	case CreateEnum:
		return DropEnum{Name: s.Name}, true
	case AddColumn:
		return DropColumn{Table: s.Table, Column: s.Column.Name, IfExists: s.IfNotExists}, true
	case AddConstraint:
		name := s.Constraint.ConstraintName()
		if name == "" {
			return nil, false
		}
		return DropConstraint{Table: s.Table, Name: name}, true
	case SetNotNull:
		return DropNotNull{Table: s.Table, Column: s.Column}, true
	case DropNotNull:
		return SetNotNull{Table: s.Table, Column: s.Column}, true
	case Insert:
		where, ok := seededRows(s)
		if !ok {
			return nil, false
		}
		return Delete{Table: s.Table, Where: where}, true
	}
	return nil, false
}

// seededRows renders a predicate matching the rows of ins by their
// OnConflict key, e.g. name IN ('admin', 'employee').
func seededRows(ins Insert) (string, bool) {
	if len(ins.OnConflict) == 0 || len(ins.Rows) == 0 {
		return "", false
	}
	pos := make([]int, len(ins.OnConflict))
	for i, key := range ins.OnConflict {
		pos[i] = -1
		for j, col := range ins.Columns {
			if col == key {
				pos[i] = j
			}
		}
		if pos[i] < 0 {
			return "", false
		}
	}

	tuples := make([]string, len(ins.Rows))
	for n, row := range ins.Rows {
		vals := make([]string, len(pos))
		for i, j := range pos {
			if j >= len(row) {
				return "", false
			}
			vals[i] = Literal(row[j])
		}
		tuples[n] = strings.Join(vals, ", ")
		if len(pos) > 1 {
			tuples[n] = "(" + tuples[n] + ")"
		}
	}
	key := identList(ins.OnConflict)
	if len(pos) > 1 {
		key = "(" + key + ")"
	}
	return fmt.Sprintf("%s IN (%s)", key, strings.Join(tuples, ", ")), true
}

// Reverse inverts stmts and returns them in opposite order, so that running
// the result after stmts restores the original schema.
func Reverse(stmts []Statement) ([]Statement, error) {
	out := make([]Statement, 0, len(stmts))
	for i := len(stmts) - 1; i >= 0; i-- {
		inv, ok := Invert(stmts[i])
		if !ok {
			return nil, fmt.Errorf("ddl: cannot invert %T: %s", stmts[i], stmts[i].SQL())
		}
		out = append(out, inv)
	}
	return out, nil
}
