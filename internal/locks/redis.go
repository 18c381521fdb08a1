package locks

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockKeyPrefix = "order:lock:" // order:lock:{collection}:{app}
	lockTTL       = 10 * time.Second
	retryInterval = 50 * time.Millisecond
	acquireWait   = 5 * time.Second
)

// releaseScript deletes the lock key only if it still holds our token, so an
// expired lease can never release a lock a later writer now holds.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements SequenceLocker with a Redis SET NX lease.
type RedisLocker struct {
	client *redis.Client
}

func NewRedisLocker(client *redis.Client) *RedisLocker {
	return &RedisLocker{client: client}
}

func (l *RedisLocker) Lock(ctx context.Context, collection, app string) (Unlock, error) {
	key := fmt.Sprintf("%s%s:%s", lockKeyPrefix, collection, app)
	token := uuid.New().String()

	deadline := time.Now().Add(acquireWait)
	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockNotAcquired, key)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryInterval):
		}
	}

	return func() {
		// Release outside the request context so an aborted request still
		// frees the lease.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && err != redis.Nil {
			log.Printf("Warning: failed to release lock %s: %v", key, err)
		}
	}, nil
}
