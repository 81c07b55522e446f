package migrator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Sentinel errors wrapped by MigrationApplyError and MigrationRevertError.
// Use errors.Is to tell an ordering problem from a failing statement.
var (
	// ErrAlreadyApplied is returned when applying a step that is in the log.
	ErrAlreadyApplied = errors.New("migrator: step already applied")

	// ErrOutOfOrder is returned when applying a step whose version is not
	// newer than the head of the log.
	ErrOutOfOrder = errors.New("migrator: step is older than the last applied version")

	// ErrNotApplied is returned when reverting a step that is not in the log.
	ErrNotApplied = errors.New("migrator: step not applied")

	// ErrNotTopOfStack is returned when reverting a step other than the most
	// recently applied one.
	ErrNotTopOfStack = errors.New("migrator: step is not the most recently applied")

	// ErrUnknownTarget is returned when a target version names no known step.
	ErrUnknownTarget = errors.New("migrator: unknown target version")

	// ErrUnknownVersion is returned when the log holds a version that has no
	// step in the source, so it cannot be reverted.
	ErrUnknownVersion = errors.New("migrator: applied version has no source step")
)

// Direction is the way a step is executed.
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
)

func (d Direction) String() string {
	if d == DirectionDown {
		return "down"
	}
	return "up"
}

// DuplicateVersionError reports two or more steps sharing a version token.
// Planning halts entirely when it is returned.
type DuplicateVersionError struct {
	Version string
	Names   []string
}

func (e *DuplicateVersionError) Error() string {
	return fmt.Sprintf("migrator: duplicate version %s shared by %s", e.Version, strings.Join(e.Names, ", "))
}

// MigrationApplyError reports a failed forward step. The step is not
// recorded in the log and any transactional work has been rolled back.
type MigrationApplyError struct {
	Version   string
	Name      string
	Statement string
	Err       error
}

func (e *MigrationApplyError) Error() string {
	return formatStepError("apply", e.Version, e.Name, e.Statement, e.Err)
}

func (e *MigrationApplyError) Unwrap() error { return e.Err }

// MigrationRevertError reports a failed or disallowed revert.
type MigrationRevertError struct {
	Version   string
	Name      string
	Statement string
	Err       error
}

func (e *MigrationRevertError) Error() string {
	return formatStepError("revert", e.Version, e.Name, e.Statement, e.Err)
}

func (e *MigrationRevertError) Unwrap() error { return e.Err }

// PartialApplyInconsistency reports a step that ran outside a transaction
// and failed after some of its statements had already taken effect. The
// database no longer matches the log and must be repaired by an operator.
type PartialApplyInconsistency struct {
	Version   string
	Name      string
	Direction Direction
	Completed []string
	Statement string
	Err       error
}

func (e *PartialApplyInconsistency) Error() string {
	return fmt.Sprintf("migrator: %s of %s %s failed after %d completed statement(s); database and migration log disagree, resolve manually: %v",
		e.Direction, e.Version, e.Name, len(e.Completed), e.Err)
}

func (e *PartialApplyInconsistency) Unwrap() error { return e.Err }

func formatStepError(verb, version, name, stmt string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "migrator: %s %s", verb, version)
	if name != "" {
		fmt.Fprintf(&b, " %s", name)
	}
	fmt.Fprintf(&b, ": %v", err)
	if stmt != "" {
		fmt.Fprintf(&b, "\nstatement: %s", firstLine(stmt))
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}

// IsDuplicateVersionErr returns true if err is or wraps a DuplicateVersionError.
func IsDuplicateVersionErr(err error) bool {
	var target *DuplicateVersionError
	return errors.As(err, &target)
}

// IsApplyErr returns true if err is or wraps a MigrationApplyError.
func IsApplyErr(err error) bool {
	var target *MigrationApplyError
	return errors.As(err, &target)
}

// IsRevertErr returns true if err is or wraps a MigrationRevertError.
func IsRevertErr(err error) bool {
	var target *MigrationRevertError
	return errors.As(err, &target)
}

// IsPartialApplyErr returns true if err is or wraps a PartialApplyInconsistency.
func IsPartialApplyErr(err error) bool {
	var target *PartialApplyInconsistency
	return errors.As(err, &target)
}

// PostgreSQL error codes surfaced by migration statements.
const (
	PgNotNullViolation    = "23502" // not_null_violation
	PgForeignKeyViolation = "23503" // foreign_key_violation
	PgUniqueViolation     = "23505" // unique_violation
	PgUndefinedTable      = "42P01" // undefined_table
	PgUndefinedColumn     = "42703" // undefined_column
	PgDuplicateObject     = "42710" // duplicate_object
)

// SQLState extracts the SQLSTATE code from a driver error. Both the pgx
// and lib/pq drivers are recognised. Returns "" for other errors.
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

// IsForeignKeyViolation returns true if err carries SQLSTATE 23503.
func IsForeignKeyViolation(err error) bool {
	return SQLState(err) == PgForeignKeyViolation
}
