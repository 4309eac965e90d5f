package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores JSON values and remembers keys per group so a whole
// group can be dropped at once.
type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Connect returns nil when addr is empty so callers run uncached.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func groupKey(group string) string {
	return "cache:group:" + group
}

func (c *RedisCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	val, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *RedisCache) Set(ctx context.Context, group, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	pipe := c.rdb.TxPipeline()
	pipe.Set(ctx, key, raw, c.ttl)
	pipe.SAdd(ctx, groupKey(group), key)
	pipe.Expire(ctx, groupKey(group), c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate deletes every key recorded under group.
func (c *RedisCache) Invalidate(ctx context.Context, group string) error {
	keys, err := c.rdb.SMembers(ctx, groupKey(group)).Result()
	if err != nil {
		return err
	}
	keys = append(keys, groupKey(group))
	return c.rdb.Del(ctx, keys...).Err()
}
