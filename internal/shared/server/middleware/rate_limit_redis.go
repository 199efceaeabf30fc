package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"jobboard-backend/internal/shared/telemetry"
)

// tokenBucketScript refills and takes one token atomically.
// KEYS[1] bucket key; ARGV rate/s, burst, now in ms.
// Returns {allowed, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local state = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(state[1])
local ts = tonumber(state[2])
if tokens == nil or ts == nil then
  tokens = burst
  ts = now
end
local elapsed = math.max(0, now - ts) / 1000
tokens = math.min(burst, tokens + elapsed * rate)
local allowed = 0
local wait = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
else
  wait = math.ceil((1 - tokens) / rate * 1000)
end
redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', tostring(now))
redis.call('PEXPIRE', KEYS[1], math.ceil(burst / rate * 1000) + 1000)
return {allowed, wait}
`)

// RedisRateLimiter shares token buckets across API replicas. Redis errors
// fail open.
type RedisRateLimiter struct {
	client redis.Scripter
	prefix string
	now    func() time.Time
}

func NewRedisRateLimiter(client redis.Scripter, prefix string, now func() time.Time) *RedisRateLimiter {
	if now == nil {
		now = time.Now
	}
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisRateLimiter{client: client, prefix: prefix, now: now}
}

func (l *RedisRateLimiter) Allow(ctx context.Context, key string, rule RateLimitRule) (bool, time.Duration) {
	if l == nil || l.client == nil || rule.Rate <= 0 || rule.Burst <= 0 {
		return true, 0
	}
	nowMs := l.now().UnixMilli()
	res, err := tokenBucketScript.Run(ctx, l.client, []string{l.prefix + key},
		strconv.FormatFloat(rule.Rate, 'f', -1, 64),
		rule.Burst,
		nowMs,
	).Int64Slice()
	if err != nil || len(res) != 2 {
		telemetry.Warn("ratelimit.redis_error", map[string]any{"key": key, "error": err})
		return true, 0
	}
	if res[0] == 1 {
		return true, 0
	}
	return false, time.Duration(res[1]) * time.Millisecond
}

var _ Limiter = (*RedisRateLimiter)(nil)
