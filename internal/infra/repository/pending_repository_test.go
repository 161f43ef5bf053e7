package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/testutil"
)

func TestPendingRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPendingRepository(client)
	fire := time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC)

	notification := testutil.Pending("engagement.streak_risk.2024-05-01", "engagement.streak_risk", domain.PriorityCritical, fire)
	if err := repo.SavePending(ctx, "user-1", notification); err != nil {
		t.Fatalf("SavePending() error = %v", err)
	}

	got, err := repo.GetPending(ctx, "user-1", notification.ID)
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}

	meta := got.Meta()
	if meta.Category != "engagement.streak_risk" {
		t.Errorf("category = %q", meta.Category)
	}
	if meta.Priority != domain.PriorityCritical {
		t.Errorf("priority = %v, want critical", meta.Priority)
	}
	if !got.Trigger.NextFire.Equal(fire) {
		t.Errorf("next fire = %v, want %v", got.Trigger.NextFire, fire)
	}
}

func TestPendingRepositoryOverwriteAndDelete(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPendingRepository(client)
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		setup   []domain.PendingNotification
		deleted []string
		wantIDs []string
	}{
		{
			name: "same identifier overwrites",
			setup: []domain.PendingNotification{
				testutil.Pending("a", "cat", domain.PriorityLow, day.Add(8*time.Hour)),
				testutil.Pending("a", "cat", domain.PriorityHigh, day.Add(9*time.Hour)),
			},
			wantIDs: []string{"a"},
		},
		{
			name: "delete ignores unknown identifiers",
			setup: []domain.PendingNotification{
				testutil.Pending("a", "cat", domain.PriorityLow, day.Add(8*time.Hour)),
				testutil.Pending("b", "cat", domain.PriorityLow, day.Add(12*time.Hour)),
			},
			deleted: []string{"a", "missing"},
			wantIDs: []string{"b"},
		},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := "user-" + string(rune('a'+i))

			for _, n := range tt.setup {
				if err := repo.SavePending(ctx, userID, n); err != nil {
					t.Fatalf("SavePending() error = %v", err)
				}
			}

			if err := repo.DeletePending(ctx, userID, tt.deleted); err != nil {
				t.Fatalf("DeletePending() error = %v", err)
			}

			got, err := repo.PendingNotifications(ctx, userID)
			if err != nil {
				t.Fatalf("PendingNotifications() error = %v", err)
			}

			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d notifications, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}

	got, err := repo.GetPending(ctx, "user-a", "a")
	if err != nil {
		t.Fatalf("GetPending() error = %v", err)
	}
	if got.Meta().Priority != domain.PriorityHigh {
		t.Errorf("overwritten priority = %v, want high", got.Meta().Priority)
	}
}

func TestPendingRepositoryNotFound(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPendingRepository(client)

	_, err := repo.GetPending(ctx, "nobody", "nothing")
	if !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Errorf("GetPending() error = %v, want ErrNotificationNotFound", err)
	}

	got, err := repo.PendingNotifications(ctx, "nobody")
	if err != nil {
		t.Fatalf("PendingNotifications() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty set, got %d", len(got))
	}
}

func TestPendingRepositorySkipsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPendingRepository(client)
	fire := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.SavePending(ctx, "user-1", testutil.Pending("ok", "cat", domain.PriorityLow, fire)); err != nil {
		t.Fatalf("SavePending() error = %v", err)
	}
	if err := client.HSet(ctx, "engagement:pending:user-1", "broken", "{not json").Err(); err != nil {
		t.Fatalf("failed to set up test data: %v", err)
	}

	got, err := repo.PendingNotifications(ctx, "user-1")
	if err != nil {
		t.Fatalf("PendingNotifications() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "ok" {
		t.Errorf("got %+v, want only ok", got)
	}
}

func TestPendingRepositoryKeyPrefixAndTTL(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewPendingRepository(client, WithKeyPrefix("staging"), WithPendingTTL(2*time.Hour))
	fire := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	if err := repo.SavePending(ctx, "user-1", testutil.Pending("lunch", "meal", domain.PriorityNormal, fire)); err != nil {
		t.Fatalf("SavePending() error = %v", err)
	}

	ttl, err := client.TTL(ctx, "staging:pending:user-1").Result()
	if err != nil {
		t.Fatalf("TTL() error = %v", err)
	}
	if ttl <= time.Hour || ttl > 2*time.Hour {
		t.Errorf("TTL = %v, want about 2h", ttl)
	}

	n, err := client.Exists(ctx, "engagement:pending:user-1").Result()
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if n != 0 {
		t.Error("default key written despite custom prefix")
	}

	other := NewPendingRepository(client)
	if _, err := other.GetPending(ctx, "user-1", "lunch"); !errors.Is(err, domain.ErrNotificationNotFound) {
		t.Errorf("GetPending() under default prefix error = %v, want ErrNotificationNotFound", err)
	}
}

func TestKeyspace(t *testing.T) {
	o := newOptions([]Option{WithKeyPrefix("staging"), WithPendingTTL(0)})

	if got := o.keys.pending("u"); got != "staging:pending:u" {
		t.Errorf("pending key = %q", got)
	}
	if got := o.keys.state("u"); got != "staging:state:u" {
		t.Errorf("state key = %q", got)
	}
	if got := o.keys.users(); got != "staging:users" {
		t.Errorf("users key = %q", got)
	}
	if got := o.keys.lock("u"); got != "staging:lock:u" {
		t.Errorf("lock key = %q", got)
	}
	if o.pendingTTL != defaultPendingTTL {
		t.Errorf("pendingTTL = %v, want default", o.pendingTTL)
	}

	if got := newOptions(nil).keys.pending("u"); got != "engagement:pending:u" {
		t.Errorf("default pending key = %q", got)
	}
}
