// Package rate enforces fixed-window per-origin request budgets over Redis
// counters: INCR plus a TTL set on the first hit of each window.
package rate

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter throttles requests per (scope, origin) pair. Scope keeps separate
// budgets for separate operations, so login attempts never eat into the
// reset budget of the same origin.
type Limiter struct {
	redis  redis.UniversalClient
	window time.Duration
}

// New creates a Limiter backed by the given Redis client.
func New(redisClient redis.UniversalClient, window time.Duration) *Limiter {
	return &Limiter{redis: redisClient, window: window}
}

// Allow charges one request against the origin's budget for the scope and
// reports whether it fits. Exceeding the budget yields ErrRateLimited; a
// Redis failure yields ErrUnavailable.
func (l *Limiter) Allow(ctx context.Context, scope, origin string, limit int) error {
	key := fmt.Sprintf("rl:%s:%s", scope, origin)

	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Fixed-window semantics: set TTL only for the first hit in the window.
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	if count > int64(limit) {
		return ErrRateLimited
	}
	return nil
}
