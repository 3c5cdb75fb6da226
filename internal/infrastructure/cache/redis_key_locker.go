package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fundledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the lock only if the caller still owns it
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisKeyLocker implements KeyLocker with SET NX PX leases in Redis.
// It serializes callers across every process sharing the Redis instance.
type RedisKeyLocker struct {
	client    *redis.Client
	keyPrefix string
	config    shared.KeyLockConfig
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// NewRedisKeyLocker creates a locker on an existing Redis client
func NewRedisKeyLocker(client *redis.Client, keyPrefix string, cfg shared.KeyLockConfig, logger *zap.Logger) *RedisKeyLocker {
	if keyPrefix == "" {
		keyPrefix = "lock:"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisKeyLocker{
		client:    client,
		keyPrefix: keyPrefix,
		config:    cfg,
		logger:    logger,
	}
}

// Lock polls SET NX until the key is acquired or ctx is done
func (l *RedisKeyLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := withWaitTimeout(ctx, l.config.WaitTimeout)
	defer cancel()

	redisKey := l.keyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.config.TTL).Result()
		if err != nil && ctx.Err() == nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		timer := time.NewTimer(l.config.RetryInterval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return nil, shared.WrapDomainError(shared.ErrLockTimeout.Code, "lock "+key, ctx.Err())
		}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
				l.logger.Warn("Failed to release lock", zap.String("key", key), zap.Error(err))
			}
		})
	}, nil
}

// Close closes the Redis client
func (l *RedisKeyLocker) Close() error {
	return l.client.Close()
}

var _ shared.KeyLocker = (*RedisKeyLocker)(nil)
