package repository

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/testutil"
)

func TestUserStateRepository(t *testing.T) {
	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewUserStateRepository(client)

	if _, err := repo.GetUserState(ctx, "user-1"); !errors.Is(err, domain.ErrUserStateNotFound) {
		t.Fatalf("GetUserState() error = %v, want ErrUserStateNotFound", err)
	}

	state := &domain.UserState{
		UserID:   "user-1",
		Timezone: "Asia/Tokyo",
		TrainingPlan: domain.TrainingPlan{
			HasWorkout:    true,
			WorkoutName:   "Upper body",
			PreferredTime: "18:30",
		},
		Streak:    9,
		LastLogAt: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		CheckIn:   domain.CheckIn{Weekday: time.Monday},
	}

	for _, s := range []*domain.UserState{state, {UserID: "user-2"}} {
		if err := repo.SaveUserState(ctx, s); err != nil {
			t.Fatalf("SaveUserState() error = %v", err)
		}
	}

	got, err := repo.GetUserState(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUserState() error = %v", err)
	}
	if got.Timezone != "Asia/Tokyo" || got.Streak != 9 || got.TrainingPlan.PreferredTime != "18:30" {
		t.Errorf("unexpected state %+v", got)
	}
	if got.CheckIn.Weekday != time.Monday {
		t.Errorf("weekday = %v", got.CheckIn.Weekday)
	}

	ids, err := repo.ListUserIDs(ctx)
	if err != nil {
		t.Fatalf("ListUserIDs() error = %v", err)
	}
	sort.Strings(ids)
	if len(ids) != 2 || ids[0] != "user-1" || ids[1] != "user-2" {
		t.Errorf("ListUserIDs() = %v", ids)
	}

	if err := repo.SaveUserState(ctx, &domain.UserState{}); !errors.Is(err, ErrInvalidUserStateData) {
		t.Errorf("SaveUserState(empty) error = %v, want ErrInvalidUserStateData", err)
	}
}
