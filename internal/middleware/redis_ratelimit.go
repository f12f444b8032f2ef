package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// slidingWindow admits a request when fewer than limit requests were seen
// for the key within the window. Returns {allowed, remaining}.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local window = tonumber(ARGV[1])
	local limit = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local member = ARGV[4]

	redis.call('ZREMRANGEBYSCORE', key, 0, now - window * 1000)

	local current = redis.call('ZCARD', key)
	if current < limit then
		redis.call('ZADD', key, now, member)
		redis.call('PEXPIRE', key, window * 1000)
		return {1, limit - current - 1}
	end
	return {0, 0}
`)

const redisCallTimeout = 50 * time.Millisecond

// RedisRateLimit limits each client IP with a Redis sliding window shared
// by every server instance. It fails open when Redis errors.
func RedisRateLimit(redisClient *redis.Client, rps int, burst int) gin.HandlerFunc {
	window := windowFor(rps, burst)
	return func(c *gin.Context) {
		clientIP := c.ClientIP()
		if clientIP == "" {
			clientIP = "unknown"
		}
		key := fmt.Sprintf("rate_limit:%s", clientIP)

		ctx, cancel := context.WithTimeout(c.Request.Context(), redisCallTimeout)
		defer cancel()
		now := time.Now()
		member := fmt.Sprintf("%d-%s", now.UnixNano(), c.GetString("request_id"))
		res, err := slidingWindow.Run(ctx, redisClient, []string{key},
			int(window.Seconds()), burst, now.UnixMilli(), member).Int64Slice()
		if err != nil || len(res) < 2 {
			c.Next()
			return
		}
		allowed, remaining := res[0], res[1]

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", burst))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", now.Add(window).Unix()))

		if allowed == 0 {
			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		c.Next()
	}
}

// windowFor is the time a full burst takes to refill at rps, at least 1s.
func windowFor(rps, burst int) time.Duration {
	if rps <= 0 {
		return time.Second
	}
	w := time.Duration(burst) * time.Second / time.Duration(rps)
	if w < time.Second {
		return time.Second
	}
	return w
}

// HybridRateLimit uses the shared Redis window and falls back to the
// in-memory bucket while Redis is unreachable.
func HybridRateLimit(redisClient *redis.Client, rps int, burst int) gin.HandlerFunc {
	memoryRateLimit := RateLimit(rps, burst)
	redisRateLimit := RedisRateLimit(redisClient, rps, burst)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), redisCallTimeout)
		err := redisClient.Ping(ctx).Err()
		cancel()
		if err != nil {
			memoryRateLimit(c)
			return
		}
		redisRateLimit(c)
	}
}
