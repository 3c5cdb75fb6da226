package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fundledger/backend/internal/domain/shared"
)

// lockEntry is a one-slot semaphore shared by all waiters on a key
type lockEntry struct {
	slot chan struct{}
	refs int
}

// InMemoryKeyLocker implements KeyLocker with per-key semaphores.
// It serializes callers within one process only.
type InMemoryKeyLocker struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
	config  shared.KeyLockConfig
}

// NewInMemoryKeyLocker creates a new in-memory key locker
func NewInMemoryKeyLocker(cfg shared.KeyLockConfig) *InMemoryKeyLocker {
	return &InMemoryKeyLocker{
		entries: make(map[string]*lockEntry),
		config:  cfg,
	}
}

// Lock blocks until key is free or ctx is done
func (l *InMemoryKeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := withWaitTimeout(ctx, l.config.WaitTimeout)
	defer cancel()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		e = &lockEntry{slot: make(chan struct{}, 1)}
		l.entries[key] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		l.release(key, e)
		return nil, shared.WrapDomainError(shared.ErrLockTimeout.Code, "lock "+key, ctx.Err())
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.slot
			l.release(key, e)
		})
	}, nil
}

func (l *InMemoryKeyLocker) release(key string, e *lockEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, key)
	}
}

// size reports how many keys are tracked
func (l *InMemoryKeyLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// withWaitTimeout applies timeout when ctx has no deadline of its own
func withWaitTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok || timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

var _ shared.KeyLocker = (*InMemoryKeyLocker)(nil)
