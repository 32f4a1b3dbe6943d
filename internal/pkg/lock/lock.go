// Package lock serialises work on a key across goroutines or processes.
package lock

import (
	"context"
	"errors"
	"time"
)

var ErrNotObtained = errors.New("lock: not obtained")

type Lock interface {
	Release(ctx context.Context) error
}

type Locker interface {
	// Obtain waits until the key is free, the locker's wait budget is spent
	// (ErrNotObtained) or ctx is done. ttl bounds how long a crashed holder
	// can keep the key.
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}
