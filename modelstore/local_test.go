package modelstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "run-1/booster.txt", []byte("tree\n")))

	data, err := store.Open(ctx, "run-1/booster.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("tree\n"), data)

	// Overwrite is atomic: readers either see old or new content.
	require.NoError(t, store.Put(ctx, "run-1/booster.txt", []byte("tree-v2\n")))
	data, err = store.Open(ctx, "run-1/booster.txt")
	require.NoError(t, err)
	assert.Equal(t, []byte("tree-v2\n"), data)
}

func TestLocal_List(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Put(ctx, "a/1", []byte("x")))
	require.NoError(t, store.Put(ctx, "a/2", []byte("y")))
	require.NoError(t, store.Put(ctx, "b/1", []byte("z")))

	names, err := store.List(ctx, "a/")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2"}, names)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a/1", "a/2", "b/1"}, all)
}

func TestLocal_NotFound(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting a missing artifact is not an error.
	assert.NoError(t, store.Delete(ctx, "missing"))
}
