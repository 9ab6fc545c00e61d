package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestStore(t *testing.T) *RunStore {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := New(db)
	require.NoError(t, store.Init(context.Background()))
	return store
}

func TestSaveAndLoadLatest(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	first, err := store.SaveRun(ctx, "recA", 25.0, 2, []byte(`{"run": 1}`))
	require.NoError(t, err)
	second, err := store.SaveRun(ctx, "recA", 25.0, 2, []byte(`{"run": 2}`))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	payload, err := store.LoadLatest(ctx, "recA")
	require.NoError(t, err)
	assert.Equal(t, `{"run": 2}`, string(payload))

	count, err := store.CountRuns(ctx, "recA")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLoadLatestUnknownRecord(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.LoadLatest(ctx, "recB")
	assert.ErrorIs(t, err, ErrNoPreviousRun)

	count, err := store.CountRuns(ctx, "recB")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	require.NoError(t, store.Init(ctx))

	_, err := store.SaveRun(ctx, "recA", 25.0, 2, []byte(`{}`))
	assert.NoError(t, err)
}
