package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	ctx := context.Background()

	err = store.Set(ctx, "pdf_chat:sessions", []byte(`{"sessions":[]}`))
	require.NoError(t, err)

	data, err := store.Get(ctx, "pdf_chat:sessions")
	require.NoError(t, err)
	assert.JSONEq(t, `{"sessions":[]}`, string(data))
}

func TestFileStoreMissingKey(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileStoreOverwrite(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "k", []byte(`1`)))
	require.NoError(t, store.Set(ctx, "k", []byte(`2`)))

	data, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestFileStoreFlattensKeySeparators(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set(context.Background(), "pdf_chat:sessions", []byte(`{}`)))

	// Colons must not end up in the filename path structure.
	_, err = os.Stat(filepath.Join(dir, "pdf_chat_sessions.json"))
	assert.NoError(t, err)
}

func TestFileStoreCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	_, err := NewFileStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
