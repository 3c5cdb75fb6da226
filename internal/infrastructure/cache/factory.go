package cache

import (
	"fmt"

	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/fundledger/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Lock backends
const (
	LockBackendMemory = "memory"
	LockBackendRedis  = "redis"
)

// KeyLockerFactory creates key lockers based on configuration
type KeyLockerFactory struct {
	redisConfig           config.RedisConfig
	lockConfig            shared.KeyLockConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// KeyLockerFactoryOption is a functional option for configuring the factory
type KeyLockerFactoryOption func(*KeyLockerFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) KeyLockerFactoryOption {
	return func(f *KeyLockerFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory locker
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) KeyLockerFactoryOption {
	return func(f *KeyLockerFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewKeyLockerFactory creates a new factory
func NewKeyLockerFactory(redisCfg config.RedisConfig, lockCfg shared.KeyLockConfig, opts ...KeyLockerFactoryOption) *KeyLockerFactory {
	f := &KeyLockerFactory{
		redisConfig:           redisCfg,
		lockConfig:            lockCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Create returns a locker for backend along with a close function
func (f *KeyLockerFactory) Create(backend string) (shared.KeyLocker, func() error, error) {
	switch backend {
	case "", LockBackendMemory:
		f.logger.Info("Using in-memory key locker")
		return NewInMemoryKeyLocker(f.lockConfig), func() error { return nil }, nil
	case LockBackendRedis:
		client, err := NewRedisClient(RedisConfig{
			Host:     f.redisConfig.Host,
			Port:     f.redisConfig.Port,
			Password: f.redisConfig.Password,
			DB:       f.redisConfig.DB,
		})
		if err == nil {
			f.logger.Info("Using Redis key locker")
			locker := NewRedisKeyLocker(client, "fundledger:lock:", f.lockConfig, f.logger)
			return locker, locker.Close, nil
		}
		if !f.allowInMemoryFallback {
			return nil, nil, fmt.Errorf("Redis required for key locking but unavailable: %w", err)
		}
		f.logger.Warn("Redis unavailable, falling back to in-memory key locker. "+
			"Concurrent imports on different instances are no longer serialized.",
			zap.Error(err),
		)
		return NewInMemoryKeyLocker(f.lockConfig), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown lock backend %q", backend)
	}
}
