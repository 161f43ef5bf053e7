package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

// SetupRedisContainer starts a throwaway Redis and skips the test when no
// container runtime is available.
func SetupRedisContainer(ctx context.Context, t *testing.T) (*redis.Client, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("failed to start redis container: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, "redis:8-alpine")
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: endpoint,
	})

	cleanup := func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}

		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	}

	return client, cleanup
}

// Pending builds a one-shot pending notification carrying category and
// priority metadata.
func Pending(id, category string, priority domain.Priority, fire time.Time) domain.PendingNotification {
	return domain.PendingNotification{
		ID:      id,
		Title:   id,
		Trigger: domain.CalendarTrigger(fire),
		UserInfo: map[string]any{
			domain.UserInfoCategoryKey: category,
			domain.UserInfoPriorityKey: int(priority),
		},
	}
}

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}
