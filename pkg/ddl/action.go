package ddl

import (
	"fmt"
	"strings"
)

// Action is the ON DELETE behaviour of a foreign key.
type Action int

const (
	// NoAction rejects the delete at the end of the statement if references remain.
	NoAction Action = iota
	// Restrict rejects the delete immediately if references remain.
	Restrict
	// Cascade deletes the referencing rows.
	Cascade
	// SetNull clears the referencing columns.
	SetNull
	// ActionSetDefault resets the referencing columns to their defaults.
	ActionSetDefault
)

func (a Action) String() string {
	switch a {
	case NoAction:
		return "NO ACTION"
	case Restrict:
		return "RESTRICT"
	case Cascade:
		return "CASCADE"
	case SetNull:
		return "SET NULL"
	case ActionSetDefault:
		return "SET DEFAULT"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// ParseAction converts a pg_constraint.confdeltype code ('a', 'r', 'c', 'n',
// 'd') or a rendered policy name ("SET NULL") to an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "A", "NO ACTION":
		return NoAction, nil
	case "R", "RESTRICT":
		return Restrict, nil
	case "C", "CASCADE":
		return Cascade, nil
	case "N", "SET NULL":
		return SetNull, nil
	case "D", "SET DEFAULT":
		return ActionSetDefault, nil
	}
	return NoAction, fmt.Errorf("ddl: unknown delete action %q", s)
}
