package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forestplants/storefront/internal/core/domain"
)

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "user", `{"id":"1","role":"admin"}`))

	reopened, err := NewFileStore(dir)
	require.NoError(t, err)
	v, err := reopened.Get(ctx, "user")
	require.NoError(t, err)
	require.Equal(t, `{"id":"1","role":"admin"}`, v)
}

func TestFileStore_MissingKey(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "token")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
	require.NoError(t, s.Delete(context.Background(), "token"))
}

func TestFileStore_OverwriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	s, err := NewFileStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Set(ctx, "cart", "[]"))
	require.NoError(t, s.Set(ctx, "cart", `[{"plantId":"p1","name":"Fern","price":5,"quantity":1}]`))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, "cart"+valueExt, entries[0].Name())

	raw, err := os.ReadFile(filepath.Join(dir, "cart"+valueExt))
	require.NoError(t, err)
	require.Contains(t, string(raw), "Fern")
}

func TestFileStore_RequiresDir(t *testing.T) {
	_, err := NewFileStore("")
	require.Error(t, err)
}
