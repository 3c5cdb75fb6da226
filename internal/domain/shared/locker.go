package shared

import (
	"context"
	"time"
)

// KeyLocker serializes work on a natural key across concurrent callers.
// Lock blocks until the key is held or ctx is done; the returned function
// releases it and is safe to call more than once.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ErrLockTimeout is returned when a key could not be acquired in time
var ErrLockTimeout = NewDomainError("LOCK_TIMEOUT", "Timed out waiting for resource lock")

// KeyLockConfig holds configuration for key locking
type KeyLockConfig struct {
	// TTL bounds how long a distributed lock survives a crashed holder
	TTL time.Duration

	// RetryInterval is the pause between acquisition attempts
	RetryInterval time.Duration

	// WaitTimeout caps how long Lock waits when ctx has no deadline
	WaitTimeout time.Duration
}

// DefaultKeyLockConfig returns the default key lock configuration
func DefaultKeyLockConfig() KeyLockConfig {
	return KeyLockConfig{
		TTL:           30 * time.Second,
		RetryInterval: 20 * time.Millisecond,
		WaitTimeout:   10 * time.Second,
	}
}
