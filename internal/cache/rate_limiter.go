package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateLimitKeyPrefix = "ratelimit:webhook"

// RateLimiter decides whether one more request from the given caller
// fits in the current window.
type RateLimiter interface {
	Allow(ctx context.Context, callerKey string) (bool, error)
}

// redisRateLimiter counts requests per caller in fixed windows. The
// counter lives in Redis so the limit holds across processes, same as
// the idempotency guarantee holds across processes in Postgres.
type redisRateLimiter struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

func NewRateLimiter(client *redis.Client, limitPerWindow int, window time.Duration) RateLimiter {
	return &redisRateLimiter{
		client: client,
		limit:  int64(limitPerWindow),
		window: window,
	}
}

func (r *redisRateLimiter) Allow(ctx context.Context, callerKey string) (bool, error) {
	windowID := time.Now().Unix() / int64(r.window.Seconds())
	key := fmt.Sprintf("%s:%s:%d", rateLimitKeyPrefix, callerKey, windowID)

	count, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("unexpected error while counting requests: %w", err)
	}

	if count == 1 {
		// First hit in this window owns setting the expiry. Keep the
		// key a bit past the window edge so late readers still see it.
		if err := r.client.Expire(ctx, key, r.window+time.Second).Err(); err != nil {
			return false, fmt.Errorf("unexpected error while expiring window: %w", err)
		}
	}

	return count <= r.limit, nil
}
