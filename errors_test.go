package strata_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/pthm/strata"
)

func TestErrorHelpers(t *testing.T) {
	t.Run("IsApplyErr", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &strata.MigrationApplyError{Version: "1", Name: "a", Err: strata.ErrAlreadyApplied})
		if !strata.IsApplyErr(err) {
			t.Error("IsApplyErr should return true for wrapped MigrationApplyError")
		}
		if !errors.Is(err, strata.ErrAlreadyApplied) {
			t.Error("sentinel should be reachable through MigrationApplyError")
		}
		if strata.IsApplyErr(errors.New("other error")) {
			t.Error("IsApplyErr should return false for other errors")
		}
	})

	t.Run("IsRevertErr", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &strata.MigrationRevertError{Version: "1", Name: "a", Err: strata.ErrNotTopOfStack})
		if !strata.IsRevertErr(err) {
			t.Error("IsRevertErr should return true for wrapped MigrationRevertError")
		}
		if strata.IsApplyErr(err) {
			t.Error("IsApplyErr should return false for a revert error")
		}
	})

	t.Run("IsPartialApplyErr", func(t *testing.T) {
		err := fmt.Errorf("wrapped: %w", &strata.PartialApplyInconsistency{Version: "1", Name: "a", Err: errors.New("boom")})
		if !strata.IsPartialApplyErr(err) {
			t.Error("IsPartialApplyErr should return true for wrapped PartialApplyInconsistency")
		}
	})

	t.Run("IsDuplicateVersionErr", func(t *testing.T) {
		err := &strata.DuplicateVersionError{Version: "1", Names: []string{"a", "b"}}
		if !strata.IsDuplicateVersionErr(err) {
			t.Error("IsDuplicateVersionErr should return true for DuplicateVersionError")
		}
		if strata.IsDuplicateVersionErr(errors.New("other error")) {
			t.Error("IsDuplicateVersionErr should return false for other errors")
		}
	})
}

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		err     error
		wantMsg string
	}{
		{strata.ErrAlreadyApplied, "step already applied"},
		{strata.ErrNotTopOfStack, "not the most recently applied"},
		{strata.ErrUnknownTarget, "unknown target version"},
	}

	for _, tt := range tests {
		t.Run(tt.wantMsg, func(t *testing.T) {
			if tt.err.Error() == "" {
				t.Error("error message should not be empty")
			}
		})
	}
}
