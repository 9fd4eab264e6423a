package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix     = "smc:scheduling:contractor-lock:"
	defaultTTL           = 10 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
)

// releaseScript deletes the key only if it still holds our token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisLocker per-contractor lock shared by all instances (SET NX PX)
type RedisLocker struct {
	client        *redis.Client
	prefix        string
	ttl           time.Duration
	retryInterval time.Duration
	logger        Logger
}

// NewRedisLocker ttl bounds how long a crashed holder blocks the contractor
func NewRedisLocker(client *redis.Client, ttl, retryInterval time.Duration, logger Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if retryInterval <= 0 {
		retryInterval = defaultRetryInterval
	}
	return &RedisLocker{
		client:        client,
		prefix:        defaultKeyPrefix,
		ttl:           ttl,
		retryInterval: retryInterval,
		logger:        logger,
	}
}

// Lock retries SET NX until it wins or ctx is done
func (l *RedisLocker) Lock(ctx context.Context, contractorID int64) (func(), error) {
	key := fmt.Sprintf("%s%d", l.prefix, contractorID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: contractor=%d: %v", ErrLockTimeout, contractorID, ctx.Err())
			}
			return nil, fmt.Errorf("%w: SetNX %s: %v", ErrLockBackend, key, err)
		}
		if ok {
			return l.unlockFunc(key, token), nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: contractor=%d: %v", ErrLockTimeout, contractorID, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlockFunc(key, token string) func() {
	return func() {
		// released with a fresh context: the caller's may already be cancelled
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil && l.logger != nil {
			l.logger.Warn("RedisLocker: failed to release %s: %v", key, err)
		}
	}
}
