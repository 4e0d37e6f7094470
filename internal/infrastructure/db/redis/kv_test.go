package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/forestplants/storefront/internal/core/domain"
)

func newTestKV(t *testing.T) (*KV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), Config{Addr: mr.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewKV(client, "storefront:"), mr
}

func TestKV_SetGetDelete(t *testing.T) {
	kv, mr := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "token", "abc"))
	got, err := mr.Get("storefront:token")
	require.NoError(t, err)
	require.Equal(t, "abc", got)

	v, err := kv.Get(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, "abc", v)

	require.NoError(t, kv.Delete(ctx, "token"))
	_, err = kv.Get(ctx, "token")
	require.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestKV_DeleteMissingKey(t *testing.T) {
	kv, _ := newTestKV(t)
	require.NoError(t, kv.Delete(context.Background(), "cart"))
}

func TestKV_Ping(t *testing.T) {
	kv, mr := newTestKV(t)
	require.NoError(t, kv.Ping(context.Background()))

	mr.Close()
	require.Error(t, kv.Ping(context.Background()))
}

func TestConnect_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := Connect(context.Background(), Config{Addr: addr})
	require.Error(t, err)
}
