package rateLimit

import (
	"context"
	"strconv"
	"time"

	redisadapter "github.com/robertarktes/show-booking/internal/adapters/redis"
	"github.com/robertarktes/show-booking/internal/observability"
)

// RateLimiter is a fixed-window counter in redis shared by every API
// replica.
type RateLimiter struct {
	redis  *redisadapter.Cache
	rate   int
	period time.Duration
	now    func() time.Time
}

func NewRateLimiter(redis *redisadapter.Cache, rate int, period time.Duration) *RateLimiter {
	return &RateLimiter{redis: redis, rate: rate, period: period, now: time.Now}
}

// Allow counts one request for key in the current window.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	window := rl.now().UnixNano() / int64(rl.period)
	fullKey := "rl:" + key + ":" + strconv.FormatInt(window, 10)

	pipe := rl.redis.Client().Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, rl.period)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return false, err
	}

	if incr.Val() > int64(rl.rate) {
		observability.RateLimitExceeded.Inc()
		return false, nil
	}
	return true, nil
}
