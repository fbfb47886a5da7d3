package ratelimit

import (
	"context"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/akyravish/secure-user-service/pkg/util"
)

// Limiter enforces a fixed-window request budget per client key. Counters
// live in Redis so the limit holds across process instances; accuracy under
// race is whatever Redis INCR gives us.
type Limiter struct {
	client *redis.Client
	scope  string
	window time.Duration
	max    int
	logger *zap.Logger
}

// New builds the global limiter.
func New(client *redis.Client, window time.Duration, max int, logger *zap.Logger) *Limiter {
	return NewScoped(client, "global", window, max, logger)
}

// NewScoped builds a limiter with its own window and budget, sharing the
// backing store. Keys carry the scope so a global limiter and stricter
// per-route limiters never cross-count.
func NewScoped(client *redis.Client, scope string, window time.Duration, max int, logger *zap.Logger) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if max <= 0 {
		max = 100
	}
	return &Limiter{client: client, scope: scope, window: window, max: max, logger: logger}
}

// Handle counts the request against the client's window and rejects with 429
// once the budget is exhausted. Rate limit headers go on every response so
// clients can self-throttle.
func (l *Limiter) Handle(c *fiber.Ctx) error {
	key := "ratelimit:" + l.scope + ":" + c.IP()

	count, ttl, err := l.hit(c.UserContext(), key)
	if err != nil {
		// counting store unreachable: let the request through rather than
		// taking the whole API down with it
		l.logger.Warn("rate limit store unavailable", zap.Error(err))
		return c.Next()
	}

	remaining := int64(l.max) - count
	if remaining < 0 {
		remaining = 0
	}
	reset := time.Now().Add(ttl)

	c.Set("X-RateLimit-Limit", strconv.Itoa(l.max))
	c.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	c.Set("X-RateLimit-Reset", strconv.FormatInt(reset.Unix(), 10))

	if count > int64(l.max) {
		retryAfter := int(ttl.Round(time.Second) / time.Second)
		if retryAfter < 1 {
			retryAfter = 1
		}
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(retryAfter))
		return apperrors.NewRateLimitExceeded()
	}

	return c.Next()
}

// hit increments the window counter, arming its expiry on first use, and
// returns the new count plus the time left in the window.
func (l *Limiter) hit(ctx context.Context, key string) (int64, time.Duration, error) {
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}

	if count == 1 {
		if err := l.client.PExpire(ctx, key, l.window).Err(); err != nil {
			return 0, 0, err
		}
		return count, l.window, nil
	}

	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = l.window
	}
	return count, ttl, nil
}
