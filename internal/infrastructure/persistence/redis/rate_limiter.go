package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
)

// slidingWindow 原子地清理窗口外记录、计数，并仅在未超限时记入本次请求。
// 被拒绝的请求不占用配额。
// 时间以微秒计，保证 Lua 双精度数值无损。
// KEYS[1]=key ARGV: now_us, window_us, limit, member
var slidingWindow = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
if count >= limit then
  return 0
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, math.ceil(window / 1000) * 2)
return 1
`)

// RateLimiter 基于有序集合的滑动窗口限流器
type RateLimiter struct {
	client *Client
}

// NewRateLimiter 创建限流器
func NewRateLimiter(client *Client) *RateLimiter {
	return &RateLimiter{client: client}
}

// Allow 窗口内已记入的请求数小于 limit 时放行
func (l *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	ctx, span := tracer.Start(ctx, "ratelimit.Allow")
	defer span.End()
	span.SetAttributes(
		attribute.String("ratelimit.key", key),
		attribute.Int("ratelimit.limit", limit),
		attribute.Int64("ratelimit.window_ms", window.Milliseconds()),
	)

	now, win := windowArgs(time.Now(), window)
	res, err := slidingWindow.Run(ctx, l.client.rdb, []string{key},
		now, win, limit, uuid.NewString()).Int()
	if err != nil {
		span.RecordError(err)
		return false, fmt.Errorf("rate limit %s: %w", key, err)
	}

	allowed := res == 1
	span.SetAttributes(attribute.Bool("ratelimit.allowed", allowed))
	return allowed, nil
}

// windowArgs 脚本参数：当前时间与窗口长度（微秒）
func windowArgs(now time.Time, window time.Duration) (int64, int64) {
	return now.UnixMicro(), window.Microseconds()
}

// BuildRateLimitKey 限流键：ratelimit:<client>:<route>
func BuildRateLimitKey(client, endpoint string) string {
	return "ratelimit:" + client + ":" + endpoint
}
