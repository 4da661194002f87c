package filestore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/budgie/internal/kv"
	"github.com/MrJamesThe3rd/budgie/internal/kv/filestore"
)

func TestStore(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")

	s, err := filestore.New(dir)
	require.NoError(t, err)

	_, err = s.Get(ctx, "state")
	require.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, s.Set(ctx, "state", []byte("first")))
	require.NoError(t, s.Set(ctx, "state", []byte("second")))

	got, err := s.Get(ctx, "state")
	require.NoError(t, err)
	assert.Equal(t, "second", string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestStore_KeyCannotEscapeDirectory(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	dir := filepath.Join(root, "data")

	s, err := filestore.New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "../outside", []byte("x")))

	_, err = os.Stat(filepath.Join(root, "outside.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	got, err := s.Get(ctx, "../outside")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}
