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
	// ErrRateLimited rejects a login attempt that exceeded the window.
	ErrRateLimited = errors.New("too many attempts")

	errRedisUnavailable = errors.New("ratelimit redis unavailable")
)

// LoginLimiter throttles local login attempts per email and per client
// IP using a fixed redis counter window.
type LoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{
		redis:       client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Enforce counts one attempt against both keys and fails with
// ErrRateLimited once either exceeds the window budget.
func (l *LoginLimiter) Enforce(ctx context.Context, email, ip string) error {
	if email != "" {
		if err := l.enforceKey(ctx, "login:email:"+strings.ToLower(email)); err != nil {
			return err
		}
	}
	if ip != "" {
		if err := l.enforceKey(ctx, "login:ip:"+ip); err != nil {
			return err
		}
	}
	return nil
}

func (l *LoginLimiter) enforceKey(ctx context.Context, key string) error {
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", errRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", errRedisUnavailable, err)
		}
	}

	if count > int64(l.maxAttempts) {
		return ErrRateLimited
	}

	return nil
}
