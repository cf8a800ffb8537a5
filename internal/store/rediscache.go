package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/caminoadmin/comunidades-go/internal/logger"
)

// RedisCache is a Cache backed by Redis, for deployments running more than
// one server replica. Pages are stored as JSON under a shared key prefix.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

const redisKeyPrefix = "listcache:"

func NewRedisCache(addr, password string, ttl time.Duration, log *logger.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return &RedisCache{client: client, ttl: ttl, log: log}, nil
}

func (c *RedisCache) Get(key string) (Page, bool) {
	ctx := context.Background()
	data, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		return Page{}, false
	}
	var page Page
	if err := json.Unmarshal(data, &page); err != nil {
		c.log.Warn("dropping undecodable cache entry", "key", key, "error", err)
		c.client.Del(ctx, redisKeyPrefix+key)
		return Page{}, false
	}
	return page, true
}

func (c *RedisCache) Set(key string, page Page) {
	data, err := json.Marshal(page)
	if err != nil {
		c.log.Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := c.client.Set(context.Background(), redisKeyPrefix+key, data, c.ttl).Err(); err != nil {
		c.log.Warn("failed to store cache entry", "key", key, "error", err)
	}
}

func (c *RedisCache) Invalidate(prefix string) {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+prefix+"*", 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache invalidation scan failed", "prefix", prefix, "error", err)
		return
	}
	if len(keys) > 0 {
		c.client.Del(ctx, keys...)
	}
}

// Close releases the underlying Redis connection.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
