package lock

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const retryBackoff = 50 * time.Millisecond

// RedisLocker locks keys across API replicas and the CLI.
type RedisLocker struct {
	client *redislock.Client
	prefix string
	wait   time.Duration
}

func NewRedisLocker(rdb *redis.Client, prefix string, wait time.Duration) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		prefix: prefix,
		wait:   wait,
	}
}

func (r *RedisLocker) Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error) {
	attempts := int(r.wait / retryBackoff)
	if attempts < 1 {
		attempts = 1
	}

	l, err := r.client.Obtain(ctx, r.prefix+key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(retryBackoff), attempts),
	})
	if err != nil {
		if errors.Is(err, redislock.ErrNotObtained) {
			return nil, ErrNotObtained
		}
		return nil, err
	}
	return &redisLock{lock: l}, nil
}

type redisLock struct {
	lock *redislock.Lock
}

func (l *redisLock) Release(ctx context.Context) error {
	err := l.lock.Release(ctx)
	if errors.Is(err, redislock.ErrLockNotHeld) {
		// TTL expired before release; another holder may own the key now.
		return nil
	}
	return err
}
