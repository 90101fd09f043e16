package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewCache(rdb), mr
}

func TestCache_Disabled(t *testing.T) {
	c := NewCache(nil)
	ctx := context.Background()

	assert.False(t, c.Enabled())
	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	var out string
	found, err := c.Get(ctx, "k", &out)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, c.Bump(ctx, "ns"))
	v, err := c.Version(ctx, "ns")
	require.NoError(t, err)
	assert.Zero(t, v)
	require.NoError(t, c.Revoke(ctx, "jti", time.Now().Add(time.Hour)))
	revoked, err := c.IsRevoked(ctx, "jti")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCache_SetGetDelete(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	type item struct {
		Name string `json:"name"`
	}
	require.NoError(t, c.Set(ctx, "item", item{Name: "Bob"}, time.Minute))

	var got item
	found, err := c.Get(ctx, "item", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Bob", got.Name)

	mr.FastForward(2 * time.Minute)
	found, err = c.Get(ctx, "item", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "item", item{Name: "Ann"}, time.Minute))
	require.NoError(t, c.Delete(ctx, "item"))
	found, err = c.Get(ctx, "item", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_VersionBump(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	v0, err := c.Version(ctx, "employees")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v0)

	require.NoError(t, c.Bump(ctx, "employees"))
	v1, err := c.Version(ctx, "employees")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v1)

	assert.Equal(t, "employees:v1:a:b", VersionedKey("employees", v1, "a", "b"))
	assert.NotEqual(t, VersionedKey("employees", v0, "a"), VersionedKey("employees", v1, "a"))
}

func TestCache_Revoke(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err := c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	other, err := c.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, other)

	mr.FastForward(2 * time.Hour)
	revoked, err = c.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestCache_RevokeExpiredIsNoop(t *testing.T) {
	c, mr := newTestCache(t)

	require.NoError(t, c.Revoke(context.Background(), "old", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists(revokedPrefix+"old"))
}
