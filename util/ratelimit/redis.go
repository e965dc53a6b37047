package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a fixed-window limiter shared by every instance pointing at the
// same Redis.
type Redis struct {
	rdb     *redis.Client
	maxReqs int64
	window  time.Duration
	prefix  string
}

func NewRedis(url string, maxRequests int, window time.Duration) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &Redis{rdb: rdb, maxReqs: int64(maxRequests), window: window, prefix: "bookrent:login:"}, nil
}

func (l *Redis) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" || l.maxReqs <= 0 {
		return true, nil
	}
	k := l.prefix + key
	n, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return false, err
		}
	}
	return n <= l.maxReqs, nil
}

func (l *Redis) Close() error { return l.rdb.Close() }
