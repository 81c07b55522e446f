package advisory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/strata/internal/testutil"
)

func TestKeyID(t *testing.T) {
	a := KeyID("strata")
	assert.Equal(t, a, KeyID("strata"))
	assert.NotEqual(t, a, KeyID("strata_migrations"))
	assert.GreaterOrEqual(t, a, int64(0))
}

func TestLock_ExcludesOtherSessions(t *testing.T) {
	ctx := context.Background()
	db := testutil.EmptyDB(t)

	held, err := Acquire(ctx, db, "strata")
	require.NoError(t, err)
	assert.Equal(t, "strata", held.Key())

	_, err = TryAcquire(ctx, db, "strata")
	assert.ErrorIs(t, err, ErrLocked)

	other, err := TryAcquire(ctx, db, "other")
	require.NoError(t, err)
	require.NoError(t, other.Release())

	require.NoError(t, held.Release())
	require.NoError(t, held.Release())

	again, err := TryAcquire(ctx, db, "strata")
	require.NoError(t, err)
	require.NoError(t, again.Release())
}
