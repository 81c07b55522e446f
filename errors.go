package strata

import "github.com/pthm/strata/pkg/migrator"

// Sentinel errors for ordering problems. They arrive wrapped in a
// MigrationApplyError or MigrationRevertError; use errors.Is.
var (
	ErrAlreadyApplied = migrator.ErrAlreadyApplied
	ErrOutOfOrder     = migrator.ErrOutOfOrder
	ErrNotApplied     = migrator.ErrNotApplied
	ErrNotTopOfStack  = migrator.ErrNotTopOfStack
	ErrUnknownTarget  = migrator.ErrUnknownTarget
	ErrUnknownVersion = migrator.ErrUnknownVersion
)

// Typed errors returned by the migration helpers.
type (
	DuplicateVersionError     = migrator.DuplicateVersionError
	MigrationApplyError       = migrator.MigrationApplyError
	MigrationRevertError      = migrator.MigrationRevertError
	PartialApplyInconsistency = migrator.PartialApplyInconsistency
)

// IsDuplicateVersionErr returns true if err is or wraps a DuplicateVersionError.
func IsDuplicateVersionErr(err error) bool {
	return migrator.IsDuplicateVersionErr(err)
}

// IsApplyErr returns true if err is or wraps a MigrationApplyError.
func IsApplyErr(err error) bool {
	return migrator.IsApplyErr(err)
}

// IsRevertErr returns true if err is or wraps a MigrationRevertError.
func IsRevertErr(err error) bool {
	return migrator.IsRevertErr(err)
}

// IsPartialApplyErr returns true if err is or wraps a
// PartialApplyInconsistency. The database and the migration log disagree and
// need manual repair before the next run.
func IsPartialApplyErr(err error) bool {
	return migrator.IsPartialApplyErr(err)
}
