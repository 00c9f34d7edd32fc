package recent

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	store.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls) * time.Minute)
	}
	return store
}

func TestTouchAndList(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Touch(ctx, "/docs/a.md", "loaded"))
	require.NoError(t, store.Touch(ctx, "/docs/b.md", "loaded"))
	require.NoError(t, store.Touch(ctx, "/docs/a.md", "saved"))

	docs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "/docs/a.md", docs[0].Path)
	assert.Equal(t, "a.md", docs[0].Name)
	assert.Equal(t, 2, docs[0].OpenCount)
	assert.Equal(t, "saved", docs[0].LastAction)

	assert.Equal(t, "/docs/b.md", docs[1].Path)
	assert.Equal(t, 1, docs[1].OpenCount)
	assert.True(t, docs[0].LastOpened.After(docs[1].LastOpened))
}

func TestListLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Touch(ctx, filepath.Join("/notes", name+".md"), "loaded"))
	}

	docs, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "d.md", docs[0].Name)
	assert.Equal(t, "c.md", docs[1].Name)
}

func TestTouchIgnoresEmptyPath(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	require.NoError(t, store.Touch(ctx, "", "saved"))

	docs, err := store.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestForgetAndClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	require.NoError(t, store.Touch(ctx, "/a.md", "loaded"))
	require.NoError(t, store.Touch(ctx, "/b.md", "loaded"))

	removed, err := store.Forget(ctx, "/a.md")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = store.Forget(ctx, "/a.md")
	require.NoError(t, err)
	assert.False(t, removed)

	docs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "/b.md", docs[0].Path)

	require.NoError(t, store.Clear(ctx))
	docs, err = store.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestOpenFileDatabasePersists(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "recent.duckdb")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Touch(ctx, "/kept.md", "saved"))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()

	docs, err := store.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "/kept.md", docs[0].Path)
}
