package redis

import (
	"context"
	"testing"
	"time"

	"account-ledger/internal/core/domain"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *goredis.Client {
	s := miniredis.RunT(t)
	return goredis.NewClient(&goredis.Options{Addr: s.Addr()})
}

func newTestSession(token string) *domain.Session {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &domain.Session{
		Token:         token,
		AccountNumber: "111111",
		CreatedAt:     now,
		ExpiresAt:     now.Add(domain.SessionTTL),
	}
}

func TestSessionStore_CreateAndGet(t *testing.T) {
	store := NewSessionStore(newTestClient(t))
	ctx := context.Background()

	session := newTestSession("tok-abc")
	require.NoError(t, store.Create(ctx, session))

	got, err := store.Get(ctx, "tok-abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "tok-abc", got.Token)
	assert.Equal(t, "111111", got.AccountNumber)
	assert.True(t, got.ExpiresAt.Equal(session.ExpiresAt))
}

func TestSessionStore_Get_Unknown(t *testing.T) {
	store := NewSessionStore(newTestClient(t))

	got, err := store.Get(context.Background(), "no-such-token")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionStore_ExtendExpiry(t *testing.T) {
	store := NewSessionStore(newTestClient(t))
	ctx := context.Background()

	session := newTestSession("tok-abc")
	require.NoError(t, store.Create(ctx, session))

	renewed := session.ExpiresAt.Add(15 * time.Minute)
	require.NoError(t, store.ExtendExpiry(ctx, "tok-abc", renewed))

	got, err := store.Get(ctx, "tok-abc")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.ExpiresAt.Equal(renewed))
}

func TestSessionStore_ExtendExpiry_UnknownIsNoop(t *testing.T) {
	store := NewSessionStore(newTestClient(t))

	err := store.ExtendExpiry(context.Background(), "gone", time.Now().Add(time.Hour))
	assert.NoError(t, err)
}

func TestSessionStore_Delete_Idempotent(t *testing.T) {
	store := NewSessionStore(newTestClient(t))
	ctx := context.Background()

	session := newTestSession("tok-abc")
	require.NoError(t, store.Create(ctx, session))

	require.NoError(t, store.Delete(ctx, "tok-abc"))
	got, err := store.Get(ctx, "tok-abc")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is not an error.
	assert.NoError(t, store.Delete(ctx, "tok-abc"))
}
