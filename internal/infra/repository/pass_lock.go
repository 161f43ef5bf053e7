package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

const (
	defaultLockTTL      = 30 * time.Second
	defaultPollInterval = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisPassLock struct {
	client       redis.UniversalClient
	keys         keyspace
	ttl          time.Duration
	pollInterval time.Duration
}

// NewRedisPassLock returns a distributed per-user lock. The TTL bounds how
// long a crashed holder can block other passes.
func NewRedisPassLock(client redis.UniversalClient, ttl time.Duration, opts ...Option) domain.PassLock {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	return &redisPassLock{
		client:       client,
		keys:         newOptions(opts).keys,
		ttl:          ttl,
		pollInterval: defaultPollInterval,
	}
}

func (l *redisPassLock) Acquire(ctx context.Context, userID string) (func(), error) {
	key := l.keys.lock(userID)
	token := uuid.NewString()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRedisConnection, err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrLockTimeout, ctx.Err())
		case <-ticker.C:
		}
	}

	release := func() {
		// The caller's context may already be cancelled.
		releaseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()

		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil {
			slog.WarnContext(releaseCtx, "failed to release pass lock",
				slog.String("event", "pass_lock.release.fail"),
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}

	return release, nil
}
