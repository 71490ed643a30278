package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const clientLimitPrefix = "ratelimit:client:"

// RateLimiter throttles the conversation endpoints with a fixed-window
// counter per client key. The counters live in redis so every replica shares
// the same window.
type RateLimiter struct {
	client *Client
	limit  int64
	window time.Duration
}

// NewRateLimiter creates a rate limiter allowing requestsPerMinute plus a
// burst allowance within each one-minute window.
func NewRateLimiter(client *Client, requestsPerMinute, burst int) *RateLimiter {
	return &RateLimiter{
		client: client,
		limit:  int64(requestsPerMinute + burst),
		window: time.Minute,
	}
}

// Allow counts one request against the client's current window.
// Returns (allowed, remaining, reset time, error).
func (r *RateLimiter) Allow(ctx context.Context, clientKey string) (bool, int, time.Time, error) {
	key := clientLimitPrefix + clientKey
	reset := time.Now().Truncate(r.window).Add(r.window)

	pipe := r.client.rdb.Pipeline()
	count := pipe.Incr(ctx, key)
	pipe.ExpireNX(ctx, key, r.window)
	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return false, 0, time.Time{}, fmt.Errorf("failed to count request against rate window: %w", err)
	}

	remaining := r.limit - count.Val()
	if remaining < 0 {
		remaining = 0
	}
	return count.Val() <= r.limit, int(remaining), reset, nil
}
