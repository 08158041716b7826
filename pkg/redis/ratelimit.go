package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter implements sliding window rate limiting using Redis.
// The scout uses it to stay inside the Brave and Finnhub API quotas
// when several regions scan concurrently.
type RateLimiter struct {
	client *Client
	prefix string
}

// RateLimitConfig defines rate limit parameters
type RateLimitConfig struct {
	Key    string        // unique identifier (e.g. "brave", "finnhub")
	Limit  int           // maximum requests allowed
	Window time.Duration // time window
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(client *Client, prefix string) *RateLimiter {
	return &RateLimiter{
		client: client,
		prefix: prefix,
	}
}

var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window_ms = tonumber(ARGV[4])

	redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)

	local count = redis.call('ZCARD', key)
	if count < limit then
		redis.call('ZADD', key, now, now .. '-' .. math.random())
		redis.call('PEXPIRE', key, window_ms)
		return {1, limit - count - 1}
	end
	return {0, 0}
`)

// Allow checks if a request is allowed under the rate limit.
// Returns (allowed, remaining, error). When Redis is disabled every
// request is allowed; callers layer a local limiter in that case.
func (r *RateLimiter) Allow(ctx context.Context, cfg RateLimitConfig) (bool, int, error) {
	if !r.client.Enabled() {
		return true, cfg.Limit, nil
	}

	key := fmt.Sprintf("%s:ratelimit:%s", r.prefix, cfg.Key)
	now := time.Now().UnixMilli()
	windowStart := now - cfg.Window.Milliseconds()

	res, err := slidingWindowScript.Run(ctx, r.client.Redis(),
		[]string{key}, now, windowStart, cfg.Limit, cfg.Window.Milliseconds()).Slice()
	if err != nil {
		return false, 0, fmt.Errorf("rate limit check failed: %w", err)
	}

	allowed, _ := res[0].(int64)
	remaining, _ := res[1].(int64)
	return allowed == 1, int(remaining), nil
}

// Wait blocks until a request is allowed or the context is done.
// Polling interval grows with consecutive denials.
func (r *RateLimiter) Wait(ctx context.Context, cfg RateLimitConfig) error {
	delay := 100 * time.Millisecond
	for {
		allowed, _, err := r.Allow(ctx, cfg)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		if delay < 2*time.Second {
			delay *= 2
		}
	}
}
