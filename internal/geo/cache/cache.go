// Package cache keeps JSON snapshots of registry records in Redis so reads
// by id skip the store. Entries are dropped by the service after every
// committed write that touches them.
//
// Every key carries a version counter bumped on invalidation. A reader takes
// the version before loading from the store and writes its snapshot only if
// the version is unchanged, so a load that raced a write never outlives it.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	id "projet/pkg/domain"
)

const keyPrefix = "projet:"

// DefaultTTL bounds how long a snapshot may outlive a missed invalidation.
const DefaultTTL = 10 * time.Minute

// Cache stores record snapshots by key.
type Cache interface {
	// Get decodes the entry at key into dst and reports whether it existed.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Version returns the invalidation counter of key, zero if never invalidated.
	Version(ctx context.Context, key string) (uint64, error)
	// SetIfVersion stores v unless key was invalidated after version was read.
	SetIfVersion(ctx context.Context, key string, version uint64, v any) (bool, error)
	// Invalidate drops the entries and bumps their versions.
	Invalidate(ctx context.Context, keys ...string) error
}

func RegionKey(regionID id.RegionID) string { return keyPrefix + "region:" + regionID.String() }
func CityKey(cityID id.CityID) string       { return keyPrefix + "city:" + cityID.String() }
func PlayerKey(playerID id.PlayerID) string { return keyPrefix + "player:" + playerID.String() }

func versionKey(key string) string { return key + ":version" }

// RedisCache is a Redis-backed Cache.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewRedis constructs a cache over an existing client.
func NewRedis(client *redis.Client, opts ...Option) *RedisCache {
	c := &RedisCache{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisCache) Version(ctx context.Context, key string) (uint64, error) {
	v, err := readVersion(ctx, c.client, key)
	if err != nil {
		return 0, fmt.Errorf("cache version %s: %w", key, err)
	}
	return v, nil
}

func (c *RedisCache) SetIfVersion(ctx context.Context, key string, version uint64, v any) (bool, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return false, fmt.Errorf("cache encode %s: %w", key, err)
	}
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readVersion(ctx, tx, key)
		if err != nil {
			return err
		}
		if current != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		stored = true
		return nil
	}, versionKey(key))
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache set %s: %w", key, err)
	}
	return stored, nil
}

func (c *RedisCache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range keys {
			pipe.Incr(ctx, versionKey(key))
			pipe.Expire(ctx, versionKey(key), c.ttl)
		}
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("cache invalidate: %w", err)
	}
	return nil
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readVersion(ctx context.Context, r getter, key string) (uint64, error) {
	v, err := r.Get(ctx, versionKey(key)).Uint64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

// Nop is a Cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error)                  { return false, nil }
func (Nop) Version(context.Context, string) (uint64, error)                 { return 0, nil }
func (Nop) SetIfVersion(context.Context, string, uint64, any) (bool, error) { return false, nil }
func (Nop) Invalidate(context.Context, ...string) error                     { return nil }
