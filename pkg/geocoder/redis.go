package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix  = "geocode:"
	DefaultRedisTTL = 7 * 24 * time.Hour
)

// RedisCache RemoteCache on redis, places stored as json.
type RedisCache struct {
	rc  *redis.Client
	ttl time.Duration
}

func NewRedisCache(rc *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultRedisTTL
	}
	return &RedisCache{rc: rc, ttl: ttl}
}

func (r *RedisCache) Get(ctx context.Context, query string) (Place, bool, error) {
	s, err := r.rc.Get(ctx, redisKeyPrefix+query).Result()
	if errors.Is(err, redis.Nil) {
		return Place{}, false, nil
	}
	if err != nil {
		return Place{}, false, err
	}
	var place Place
	if err := json.Unmarshal([]byte(s), &place); err != nil {
		return Place{}, false, err
	}
	return place, true, nil
}

func (r *RedisCache) Set(ctx context.Context, query string, place Place) error {
	b, err := json.Marshal(place)
	if err != nil {
		return err
	}
	return r.rc.Set(ctx, redisKeyPrefix+query, string(b), r.ttl).Err()
}

// NewRedisClient nil when addr is empty, the cache then runs without a remote tier.
func NewRedisClient(addr, pass string, db int) *redis.Client {
	if addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db})
}
