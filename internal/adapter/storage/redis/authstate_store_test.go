package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthStateStore_IncrementFailed(t *testing.T) {
	store := NewAuthStateStore(newTestClient(t))
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		count, err := store.IncrementFailed(ctx, "111111")
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}
}

func TestAuthStateStore_IncrementFailed_PerAccount(t *testing.T) {
	store := NewAuthStateStore(newTestClient(t))
	ctx := context.Background()

	_, err := store.IncrementFailed(ctx, "111111")
	require.NoError(t, err)

	count, err := store.IncrementFailed(ctx, "222222")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "counters are per account")
}

func TestAuthStateStore_ClearFailed(t *testing.T) {
	store := NewAuthStateStore(newTestClient(t))
	ctx := context.Background()

	_, err := store.IncrementFailed(ctx, "111111")
	require.NoError(t, err)
	_, err = store.IncrementFailed(ctx, "111111")
	require.NoError(t, err)

	require.NoError(t, store.ClearFailed(ctx, "111111"))

	count, err := store.IncrementFailed(ctx, "111111")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "counter starts over after clear")
}

func TestAuthStateStore_Lockout_RoundTrip(t *testing.T) {
	store := NewAuthStateStore(newTestClient(t))
	ctx := context.Background()

	at := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, store.SetLockout(ctx, "111111", at))

	got, err := store.GetLockout(ctx, "111111")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Equal(at))
}

func TestAuthStateStore_GetLockout_NoneIsNil(t *testing.T) {
	store := NewAuthStateStore(newTestClient(t))

	got, err := store.GetLockout(context.Background(), "111111")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAuthStateStore_ClearLockout(t *testing.T) {
	store := NewAuthStateStore(newTestClient(t))
	ctx := context.Background()

	require.NoError(t, store.SetLockout(ctx, "111111", time.Now().UTC()))
	require.NoError(t, store.ClearLockout(ctx, "111111"))

	got, err := store.GetLockout(ctx, "111111")
	require.NoError(t, err)
	assert.Nil(t, got)
}
