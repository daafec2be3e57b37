package middleware

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy defines the behavior when the rate limit store (Redis) is unavailable.
type FailPolicy int

const (
	// FailOpen allows the request to proceed if Redis is unavailable.
	FailOpen FailPolicy = iota
	// FailClosed blocks the request (503 Service Unavailable) if Redis is unavailable.
	FailClosed
)

// ErrNoLimiterStore is returned when throttling is enforced but Redis is not connected.
var ErrNoLimiterStore = errors.New("rate limit store unavailable")

// RateLimitRule throttles one route: at most Limit requests per Window for each caller.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
	Policy FailPolicy
}

// Quota is the outcome of one counted request.
type Quota struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// rateLimitExempt reports whether throttling is disabled for the current APP_ENV.
func rateLimitExempt() bool {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true
	}
	return false
}

// rateLimitKey is rl:<rule>:user:<id> for signed-in callers and rl:<rule>:ip:<addr> otherwise.
func rateLimitKey(rule string, c *fiber.Ctx) string {
	if uid := c.Locals("userID"); uid != nil {
		return fmt.Sprintf("rl:%s:user:%v", rule, uid)
	}
	return fmt.Sprintf("rl:%s:ip:%s", rule, c.IP())
}

// CheckRateLimit counts one request against key in a fixed window that starts with the
// first request.
func CheckRateLimit(ctx context.Context, rdb *redis.Client, key string, limit int, window time.Duration) (Quota, error) {
	if rateLimitExempt() {
		return Quota{Allowed: true, Remaining: limit}, nil
	}
	if rdb == nil {
		return Quota{}, ErrNoLimiterStore
	}

	cnt, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return Quota{}, err
	}
	if cnt == 1 {
		if err := rdb.Expire(ctx, key, window).Err(); err != nil {
			return Quota{}, err
		}
	}

	q := Quota{Allowed: cnt <= int64(limit), Remaining: max(limit-int(cnt), 0)}
	if !q.Allowed {
		ttl, err := rdb.TTL(ctx, key).Result()
		if err != nil || ttl <= 0 {
			ttl = window
		}
		q.RetryAfter = ttl
	}
	return q, nil
}

// RateLimit returns a Fiber middleware enforcing rule. Mount it after AuthRequired so
// signed-in callers are counted by user id.
func RateLimit(rdb *redis.Client, rule RateLimitRule) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q, err := CheckRateLimit(c.UserContext(), rdb, rateLimitKey(rule.Name, c), rule.Limit, rule.Window)
		if err != nil {
			if rule.Policy == FailClosed {
				Logger.WarnContext(c.UserContext(), "rate limit store unavailable, failing closed",
					"rule", rule.Name, "error", err.Error())
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Service temporarily unavailable",
					"code":  "UNAVAILABLE",
				})
			}
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(q.Remaining))
		if !q.Allowed {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(q.RetryAfter.Round(time.Second).Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, try again later",
				"code":  "RATE_LIMITED",
			})
		}
		return c.Next()
	}
}
