package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/goddivor/solo-base-notes-api/internal/config"
)

const (
	// defaultKeyPrefix namespaces all cache keys in Redis to avoid collisions.
	defaultKeyPrefix = "sbn:"

	// redisOpTimeout caps every Redis round trip so a stalled server does
	// not hold up a request indefinitely.
	redisOpTimeout = 2 * time.Second
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache implements the Cache interface with per-key TTL handled
// server-side via SET EX. Capacity is left to the Redis maxmemory policy;
// unlike the in-memory backend there is no application-level LRU.
type redisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	prefix := defaultKeyPrefix
	if cfg.Group != "" {
		prefix = defaultKeyPrefix + cfg.Group + ":"
	}

	return &redisCache{
		client: client,
		ttl:    cfg.TTL,
		prefix: prefix,
	}, nil
}

func (r *redisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	val, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger := config.GetLogger()
			logger.Warn().Err(err).Str("key", key).Msg("Redis cache get failed")
		}
		return nil, false
	}
	return val, true
}

func (r *redisCache) Set(key string, value []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, r.prefix+key, value, r.ttl).Err(); err != nil {
		logger := config.GetLogger()
		logger.Warn().Err(err).Str("key", key).Msg("Redis cache set failed")
	}
}

func (r *redisCache) Contains(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := r.client.Exists(ctx, r.prefix+key).Result()
	if err != nil {
		return false
	}
	return n > 0
}

func (r *redisCache) Len() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	var count int
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 1000).Result()
		if err != nil {
			return count
		}
		count += len(keys)
		if next == 0 {
			return count
		}
		cursor = next
	}
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
