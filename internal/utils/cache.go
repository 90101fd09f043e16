package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error comparison
	"strconv"       // Version formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// Cache wraps an optional Redis client. A nil *Cache is a valid, disabled cache:
// reads miss, writes are dropped and nothing is ever revoked.
type Cache struct {
	rdb *redis.Client
}

// NewCache wraps rdb; a nil client yields a disabled cache
func NewCache(rdb *redis.Client) *Cache {
	if rdb == nil {
		return nil
	}
	return &Cache{rdb: rdb}
}

// Enabled reports whether a Redis client is configured
func (c *Cache) Enabled() bool { return c != nil && c.rdb != nil }

// Get retrieves a value from Redis and unmarshals it into dest
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	if !c.Enabled() {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// Set stores a value in Redis with a specified TTL
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if !c.Enabled() {
		return nil
	}
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

// Delete deletes a key from Redis
func (c *Cache) Delete(ctx context.Context, key string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Del(ctx, key).Err()
}

// Version returns the current generation of a namespace, 0 if never bumped
func (c *Cache) Version(ctx context.Context, namespace string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}
	v, err := c.rdb.Get(ctx, namespace+":version").Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Bump invalidates every key built with VersionedKey for the namespace
func (c *Cache) Bump(ctx context.Context, namespace string) error {
	if !c.Enabled() {
		return nil
	}
	return c.rdb.Incr(ctx, namespace+":version").Err()
}

// VersionedKey builds a key scoped to a namespace generation
func VersionedKey(namespace string, version int64, parts ...string) string {
	key := namespace + ":v" + strconv.FormatInt(version, 10)
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

const revokedPrefix = "auth:revoked:"

// Revoke denylists a token id until its expiry
func (c *Cache) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if !c.Enabled() || tokenID == "" {
		return nil
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil // Already expired, nothing to deny
	}
	return c.rdb.Set(ctx, revokedPrefix+tokenID, "1", ttl).Err()
}

// IsRevoked reports whether a token id is denylisted
func (c *Cache) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if !c.Enabled() || tokenID == "" {
		return false, nil
	}
	n, err := c.rdb.Exists(ctx, revokedPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
