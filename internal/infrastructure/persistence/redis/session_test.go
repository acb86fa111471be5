package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookshelf/pkg/errors"
)

func newTestStore(t *testing.T) (*SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionStore(client), mr
}

func TestSessionStore_Session(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	err := store.SaveSession(ctx, 7, map[string]interface{}{"ip": "127.0.0.1"}, time.Hour)
	require.NoError(t, err)

	data, err := store.GetSession(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", data["ip"])
	assert.Equal(t, time.Hour, mr.TTL("bookshelf:session:7"))

	require.NoError(t, store.DeleteSession(ctx, 7))
	_, err = store.GetSession(ctx, 7)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestSessionStore_Blacklist(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	revoked, err := store.IsInBlacklist(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.AddToBlacklist(ctx, "token", time.Minute))
	revoked, err = store.IsInBlacklist(ctx, "token")
	require.NoError(t, err)
	assert.True(t, revoked)

	// 过期后自动移出黑名单
	mr.FastForward(2 * time.Minute)
	revoked, err = store.IsInBlacklist(ctx, "token")
	require.NoError(t, err)
	assert.False(t, revoked)

	// 已过期的Token无需加入
	require.NoError(t, store.AddToBlacklist(ctx, "expired", 0))
	assert.False(t, mr.Exists("bookshelf:blacklist:expired"))
}
