package strata_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/strata"
	"github.com/pthm/strata/internal/testutil"
	"github.com/pthm/strata/pkg/migrator"
)

var quiet = migrator.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

func TestSteps(t *testing.T) {
	steps := strata.Steps()
	require.NotEmpty(t, steps)
	assert.Equal(t, strata.Latest(), steps[len(steps)-1].Version)
	assert.NoError(t, migrator.Validate(steps))
}

func TestMigrateUpDown(t *testing.T) {
	ctx := context.Background()
	db := testutil.EmptyDB(t)

	res, err := strata.MigrateUp(ctx, db, quiet)
	require.NoError(t, err)
	assert.Len(t, res.Steps, len(strata.Steps()))

	res, err = strata.MigrateUp(ctx, db, quiet)
	require.NoError(t, err)
	assert.Empty(t, res.Steps, "second run is a no-op")

	res, err = strata.MigrateDown(ctx, db, quiet)
	require.NoError(t, err)
	assert.Equal(t, []string{strata.Latest()}, res.Versions())

	_, err = strata.MigrateDownTo(ctx, db, strata.Base, quiet)
	require.NoError(t, err)

	applied, err := strata.NewMigrator(db, quiet).Applied(ctx)
	require.NoError(t, err)
	assert.Empty(t, applied)
}

func TestMigrateDownTo_UnknownTarget(t *testing.T) {
	ctx := context.Background()
	db := testutil.EmptyDB(t)

	_, err := strata.MigrateDownTo(ctx, db, "19990101000000", quiet)
	assert.ErrorIs(t, err, strata.ErrUnknownTarget)
}
