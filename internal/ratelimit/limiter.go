// Package ratelimit provides Redis-backed fixed-window attempt counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrRedisUnavailable = errors.New("rate limit store unavailable")
)

// Scopes keep counters for different flows apart
const (
	ScopeLogin        = "login"
	ScopeResetRequest = "reset-request"
	ScopeResetVerify  = "reset-verify"
)

type Config struct {
	MaxAttempts int
	Window      time.Duration
}

// Limiter counts attempts per scope and key inside a fixed window
type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

func NewLimiter(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: cfg,
	}
}

// Allow records one attempt and returns ErrRateLimited once the window's
// budget is spent. A nil Limiter allows everything.
func (l *Limiter) Allow(ctx context.Context, scope, key string) error {
	if l == nil || l.config.MaxAttempts <= 0 {
		return nil
	}

	k := windowKey(scope, key)
	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}

	if count > int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// Reset clears the counter, e.g. after a successful login
func (l *Limiter) Reset(ctx context.Context, scope, key string) error {
	if l == nil {
		return nil
	}
	if err := l.redis.Del(ctx, windowKey(scope, key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func windowKey(scope, key string) string {
	return "md:rl:" + scope + ":" + strings.ToLower(strings.TrimSpace(key))
}
