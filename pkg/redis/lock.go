package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
)

// ErrLockNotObtained is returned when a resource stays locked past the retry budget.
var ErrLockNotObtained = errors.New("resource is locked")

const (
	lockRetryInterval = 50 * time.Millisecond
	lockRetryLimit    = 40
)

type lockObtainer interface {
	Obtain(ctx context.Context, key string, ttl time.Duration, opt *redislock.Options) (*redislock.Lock, error)
}

// Locker serializes mutations on a single resource across API instances.
type Locker struct {
	locks lockObtainer
	keys  func(resource, id string) string
	ttl   time.Duration
}

// NewLocker builds a redislock-backed locker on top of the shared connection.
func NewLocker(c *Client, ttl time.Duration) (*Locker, error) {
	if c == nil || c.raw == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("lock ttl must be positive")
	}
	return &Locker{locks: redislock.New(c.raw), keys: c.LockKey, ttl: ttl}, nil
}

// WithLock runs fn while holding the lock for resource/id. The lock is released
// when fn returns, even if fn fails.
func (l *Locker) WithLock(ctx context.Context, resource, id string, fn func(ctx context.Context) error) error {
	lock, err := l.locks.Obtain(ctx, l.keys(resource, id), l.ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(lockRetryInterval), lockRetryLimit),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return fmt.Errorf("%w: %s %s", ErrLockNotObtained, resource, id)
	}
	if err != nil {
		return fmt.Errorf("obtain lock: %w", err)
	}
	defer func() {
		_ = lock.Release(context.WithoutCancel(ctx))
	}()
	return fn(ctx)
}

// NoopLocker runs fn directly. Used when cross-instance locking is disabled.
type NoopLocker struct{}

func (NoopLocker) WithLock(ctx context.Context, _, _ string, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
