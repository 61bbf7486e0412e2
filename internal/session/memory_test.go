package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	token, err := store.Create(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, token, 32)

	accountID, ok, err := store.Resolve(ctx, token)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "acc-1", accountID)

	require.NoError(t, store.Destroy(ctx, token))

	_, ok, err = store.Resolve(ctx, token)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreDestroyIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Destroy(ctx, "never-existed"))

	token, err := store.Create(ctx, "acc-1")
	require.NoError(t, err)
	require.NoError(t, store.Destroy(ctx, token))
	require.NoError(t, store.Destroy(ctx, token))
}

func TestMemoryStoreTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	first, err := store.Create(ctx, "acc-1")
	require.NoError(t, err)
	second, err := store.Create(ctx, "acc-1")
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestMemoryStoreDestroyAccount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	tokenA1, err := store.Create(ctx, "acc-a")
	require.NoError(t, err)
	tokenA2, err := store.Create(ctx, "acc-a")
	require.NoError(t, err)
	tokenB, err := store.Create(ctx, "acc-b")
	require.NoError(t, err)

	require.NoError(t, store.DestroyAccount(ctx, "acc-a"))

	_, ok, _ := store.Resolve(ctx, tokenA1)
	require.False(t, ok)
	_, ok, _ = store.Resolve(ctx, tokenA2)
	require.False(t, ok)

	accountID, ok, _ := store.Resolve(ctx, tokenB)
	require.True(t, ok)
	require.Equal(t, "acc-b", accountID)
}
