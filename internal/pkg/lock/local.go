package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLocker locks keys inside one process. ttl is ignored: holders always
// release through defer.
type LocalLocker struct {
	mu   sync.Mutex
	held map[string]chan struct{}
	wait time.Duration
}

func NewLocalLocker(wait time.Duration) *LocalLocker {
	return &LocalLocker{
		held: make(map[string]chan struct{}),
		wait: wait,
	}
}

func (l *LocalLocker) Obtain(ctx context.Context, key string, _ time.Duration) (Lock, error) {
	timer := time.NewTimer(l.wait)
	defer timer.Stop()

	for {
		l.mu.Lock()
		ch, busy := l.held[key]
		if !busy {
			ch = make(chan struct{})
			l.held[key] = ch
			l.mu.Unlock()
			return &localLock{locker: l, key: key, ch: ch}, nil
		}
		l.mu.Unlock()

		select {
		case <-ch:
		case <-timer.C:
			return nil, ErrNotObtained
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

type localLock struct {
	locker *LocalLocker
	key    string
	ch     chan struct{}
	once   sync.Once
}

func (l *localLock) Release(_ context.Context) error {
	l.once.Do(func() {
		l.locker.mu.Lock()
		defer l.locker.mu.Unlock()
		if l.locker.held[l.key] == l.ch {
			delete(l.locker.held, l.key)
		}
		close(l.ch)
	})
	return nil
}
