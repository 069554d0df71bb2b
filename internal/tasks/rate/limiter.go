package rate

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

type RateLimit struct {
	Window time.Duration // e.g., 1 minute, 1 hour
	Max    int           // max hits per window
}

type Config struct {
	Name      string
	RateLimit RateLimit
}

// SlidingWindowLimiter counts hits per identifier in a redis sorted set scored by time.
type SlidingWindowLimiter struct {
	redis  *redis.Client
	config Config
	now    func() time.Time
	seq    atomic.Uint64
}

func NewSlidingWindowLimiter(redis *redis.Client, config Config) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		redis:  redis,
		config: config,
		now:    time.Now,
	}
}

// Allow records a hit for identifier and reports whether it is within the limit.
// Rejected hits are recorded too, so a client that keeps hammering stays blocked.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, identifier string) (bool, error) {
	if l.config.RateLimit.Max <= 0 {
		return true, nil
	}

	key := fmt.Sprintf("rate_limit:%s:%s", l.config.Name, identifier)

	now := l.now().UnixMilli()
	windowStart := now - l.config.RateLimit.Window.Milliseconds()
	member := fmt.Sprintf("%d-%d", now, l.seq.Add(1))

	pipe := l.redis.Pipeline()

	// Remove old entries
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))

	// Count current window
	count := pipe.ZCard(ctx, key)

	// Add new entry
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: member})

	// Set expiration
	pipe.Expire(ctx, key, l.config.RateLimit.Window*2)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("redis pipeline error: %w", err)
	}

	return count.Val() < int64(l.config.RateLimit.Max), nil
}
