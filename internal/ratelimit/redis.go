package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter implements the same sliding window on a Redis sorted set so
// the count is shared across server processes.  Each admitted request is a
// member scored by its timestamp in milliseconds; pruning and admission
// happen atomically inside a Lua script, which gives the same no-lost-update
// guarantee the in-memory mutex does.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisLimiter wraps an established Redis client.  Keys are namespaced
// under the given prefix.
func NewRedisLimiter(rdb *redis.Client, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "rl"
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix}
}

var allowScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local window_ms = tonumber(ARGV[2])
    local limit = tonumber(ARGV[3])

    redis.call('ZREMRANGEBYSCORE', key, '-inf', now_ms - window_ms)
    local count = redis.call('ZCARD', key)
    if count < limit then
        redis.call('ZADD', key, now_ms, tostring(now_ms) .. '-' .. tostring(math.random(1000000)))
        redis.call('PEXPIRE', key, window_ms)
        return { 1, limit - count - 1 }
    end
    return { 0, 0 }
`)

var remainingScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local window_ms = tonumber(ARGV[2])
    local limit = tonumber(ARGV[3])

    redis.call('ZREMRANGEBYSCORE', key, '-inf', now_ms - window_ms)
    local count = redis.call('ZCARD', key)
    if count >= limit then
        return 0
    end
    return limit - count
`)

// Allow implements Limiter.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (Result, error) {
	now := time.Now()
	res := Result{Limit: limit, Reset: now.Add(window)}

	vals, err := allowScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key},
		now.UnixMilli(), window.Milliseconds(), limit).Int64Slice()
	if err != nil {
		return res, err
	}
	if len(vals) == 2 {
		res.Allowed = vals[0] == 1
		res.Remaining = int(vals[1])
	}
	return res, nil
}

// Remaining implements Limiter.
func (l *RedisLimiter) Remaining(ctx context.Context, key string, limit int, window time.Duration) (int, error) {
	n, err := remainingScript.Run(ctx, l.rdb, []string{l.prefix + ":" + key},
		time.Now().UnixMilli(), window.Milliseconds(), limit).Int()
	if err != nil {
		return 0, err
	}
	return n, nil
}
