// Package ratelimit counts failed attempts per key in Redis.
//
// HOW IT WORKS:
// Each failure is an INCR on "<prefix><key>". The first INCR also sets an
// EXPIRE of one window, so the counter disappears on its own once the
// window has passed since the first failure. A key is blocked while its
// counter is at or above the limit. A success DELetes the counter.
//
// Redis (not process memory) holds the counters so that every server
// instance behind a load balancer sees the same numbers.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultMaxFailures = 5
	DefaultWindow      = 15 * time.Minute

	keyPrefix = "crudauth:login-fail:"
)

// ErrUnavailable wraps any Redis failure.
var ErrUnavailable = errors.New("ratelimit: redis unavailable")

// Limiter is a failed-attempt counter backed by Redis.
type Limiter struct {
	rdb    *redis.Client
	max    int64
	window time.Duration
}

// New returns a Limiter that blocks a key after max failures within window.
// Non-positive values fall back to the defaults.
func New(rdb *redis.Client, max int, window time.Duration) *Limiter {
	if max <= 0 {
		max = DefaultMaxFailures
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{rdb: rdb, max: int64(max), window: window}
}

// Blocked reports whether key has used up its failures for this window.
func (l *Limiter) Blocked(ctx context.Context, key string) (bool, error) {
	n, err := l.rdb.Get(ctx, keyPrefix+key).Int64()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n >= l.max, nil
}

// Fail records one failure for key.
func (l *Limiter) Fail(ctx context.Context, key string) error {
	k := keyPrefix + key
	count, err := l.rdb.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if count == 1 {
		if err := l.rdb.Expire(ctx, k, l.window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}
	return nil
}

// Reset forgets the failures for key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	if err := l.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Ping lets the health check include Redis.
func (l *Limiter) Ping() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return l.rdb.Ping(ctx).Err()
}

// Close closes the underlying client.
func (l *Limiter) Close() error {
	return l.rdb.Close()
}
