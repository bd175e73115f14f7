package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/ruralpay/cardledger/internal/errors"
	"github.com/ruralpay/cardledger/internal/logger"
)

// LoginLimiter counts failed logins per username in Redis.
// With a nil client every call is a no-op.
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

func failureKey(username string) string {
	return fmt.Sprintf("login_failures:%s", username)
}

// Check returns ErrTooManyAttempts once the username has used up its attempts.
// Redis failures are logged and do not block logins.
func (l *LoginLimiter) Check(ctx context.Context, username string) error {
	if l == nil || l.redis == nil || l.maxAttempts <= 0 {
		return nil
	}

	count, err := l.redis.Get(ctx, failureKey(username)).Int()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("login limiter unavailable")
		return nil
	}

	if count >= l.maxAttempts {
		return errors.ErrTooManyAttempts
	}
	return nil
}

func (l *LoginLimiter) RecordFailure(ctx context.Context, username string) {
	if l == nil || l.redis == nil {
		return
	}

	key := failureKey(username)
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("failed to record login failure")
		return
	}

	// first failure opens the window
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			logger.Warn().Err(err).Str("username", username).Msg("failed to set login failure expiry")
		}
	}
}

func (l *LoginLimiter) Reset(ctx context.Context, username string) {
	if l == nil || l.redis == nil {
		return
	}

	if err := l.redis.Del(ctx, failureKey(username)).Err(); err != nil {
		logger.Warn().Err(err).Str("username", username).Msg("failed to reset login failures")
	}
}
