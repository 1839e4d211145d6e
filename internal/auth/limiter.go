package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	failKeyPrefix  = "signin:fail:"
	blockKeyPrefix = "signin:block:"
)

// RedisLimiter counts failed signins per email. After maxFails failures
// inside window the email is blocked for window.
type RedisLimiter struct {
	rdb      *redis.Client
	maxFails int
	window   time.Duration
}

func NewRedisLimiter(rdb *redis.Client, maxFails int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, maxFails: maxFails, window: window}
}

// Allow reports whether email may attempt a signin now.
func (l *RedisLimiter) Allow(ctx context.Context, email string) (bool, error) {
	n, err := l.rdb.Exists(ctx, blockKeyPrefix+email).Result()
	if err != nil {
		return false, fmt.Errorf("limiter allow: %w", err)
	}
	return n == 0, nil
}

// Failure records a failed attempt and reports whether email is now blocked.
func (l *RedisLimiter) Failure(ctx context.Context, email string) (bool, error) {
	key := failKeyPrefix + email
	n, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("limiter failure: %w", err)
	}
	if n == 1 {
		if err := l.rdb.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("limiter failure: %w", err)
		}
	}
	if n < int64(l.maxFails) {
		return false, nil
	}
	pipe := l.rdb.TxPipeline()
	pipe.Set(ctx, blockKeyPrefix+email, 1, l.window)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("limiter block: %w", err)
	}
	return true, nil
}

// Success clears the failure count for email.
func (l *RedisLimiter) Success(ctx context.Context, email string) error {
	return l.rdb.Del(ctx, failKeyPrefix+email).Err()
}
