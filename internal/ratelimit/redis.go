package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments the counter and sets its expiry on the first hit of a window.
var incrScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`)

// RedisLimiter is a fixed-window limiter shared by every instance pointing at the
// same Redis database.
type RedisLimiter struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

// NewRedisLimiter creates a limiter storing counters under prefix.
func NewRedisLimiter(client redis.Scripter, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisLimiter{client: client, prefix: prefix, now: time.Now}
}

// NewRedisClient parses a redis:// URL and returns a client.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Check records a hit for key and reports whether it fits in the current window.
func (l *RedisLimiter) Check(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	if limit <= 0 {
		limit = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	// PEXPIRE 0 deletes the key, so sub-millisecond windows round up.
	windowMs := max(window.Milliseconds(), 1)

	vals, err := incrScript.Run(ctx, l.client, []string{l.prefix + key}, windowMs).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("failed to run rate limit script: %w", err)
	}
	if len(vals) < 2 {
		return Result{}, fmt.Errorf("unexpected rate limit script reply: %v", vals)
	}

	count, ttlMs := vals[0], vals[1]
	if ttlMs < 0 {
		ttlMs = windowMs
	}

	now := l.now()
	return decide(int(count), limit, now.Add(time.Duration(ttlMs)*time.Millisecond), now), nil
}
