// Package cli provides shared configuration and utilities for the strata CLI.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/pthm/strata/pkg/migrator"
)

// Exit codes.
const (
	ExitSuccess        = 0
	ExitGeneral        = 1
	ExitConfig         = 2
	ExitDBConnect      = 4
	ExitMigration      = 5
	ExitPartialApply   = 6
	ExitDuplicateSteps = 7
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitWithError prints the error and exits with the appropriate code.
func ExitWithError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(ExitCode(err))
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitGeneral
}

// ConfigError creates an ExitError with ExitConfig code.
func ConfigError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitConfig, Message: msg, Err: err}
}

// DBConnectError creates an ExitError with ExitDBConnect code.
func DBConnectError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitDBConnect, Message: msg, Err: err}
}

// GeneralError creates an ExitError with ExitGeneral code.
func GeneralError(msg string, err error) *ExitError {
	return &ExitError{Code: ExitGeneral, Message: msg, Err: err}
}

// MigrationError classifies an engine error. Partial applies and duplicate
// versions get their own codes so scripts can tell them apart from an
// ordinary failed step.
func MigrationError(msg string, err error) *ExitError {
	code := ExitMigration
	switch {
	case migrator.IsPartialApplyErr(err):
		code = ExitPartialApply
	case migrator.IsDuplicateVersionErr(err):
		code = ExitDuplicateSteps
	}
	return &ExitError{Code: code, Message: msg, Err: err}
}
