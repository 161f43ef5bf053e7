package schedule

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/repository"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/pending"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/throttle"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/testutil"
)

// memoryStore is an in-process notification store keyed by user and
// identifier.
type memoryStore struct {
	mu           sync.Mutex
	pending      map[string]map[string]domain.PendingNotification
	failSchedule map[string]bool
	removed      []string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		pending:      make(map[string]map[string]domain.PendingNotification),
		failSchedule: make(map[string]bool),
	}
}

func (s *memoryStore) PendingNotifications(_ context.Context, userID string) ([]domain.PendingNotification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]domain.PendingNotification, 0, len(s.pending[userID]))
	for _, n := range s.pending[userID] {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *memoryStore) Schedule(_ context.Context, userID string, n domain.PendingNotification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failSchedule[n.ID] {
		return errors.New("store unavailable")
	}
	if s.pending[userID] == nil {
		s.pending[userID] = make(map[string]domain.PendingNotification)
	}
	s.pending[userID][n.ID] = n
	return nil
}

func (s *memoryStore) Remove(_ context.Context, userID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range ids {
		delete(s.pending[userID], id)
	}
	s.removed = append(s.removed, ids...)
	return nil
}

type snapshotEntry struct {
	ID   string
	Fire time.Time
}

func (s *memoryStore) snapshot(userID string) []snapshotEntry {
	notifications, _ := s.PendingNotifications(context.Background(), userID)
	out := make([]snapshotEntry, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, snapshotEntry{ID: n.ID, Fire: n.Trigger.NextFire})
	}
	return out
}

func (s *memoryStore) has(userID, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[userID][id]
	return ok
}

func newTestOrchestrator(states domain.UserStateRepository, store *memoryStore, now time.Time) *Orchestrator {
	clock := testutil.FixedClock(now)
	evaluator := throttle.NewEvaluator(store, pending.NewClassifier(), nil, throttle.WithClock(clock))

	return NewOrchestrator(states, store, evaluator, repository.NewMemoryPassLock(), nil,
		WithClock(clock),
		WithDefaultLocation(time.UTC),
	)
}

func expectState(states *domain.MockUserStateRepository, state *domain.UserState) {
	states.EXPECT().
		GetUserState(gomock.Any(), state.UserID).
		DoAndReturn(func(context.Context, string) (*domain.UserState, error) {
			copied := *state
			return &copied, nil
		}).
		AnyTimes()
}

func outcomesByID(result *PassResult) map[string]string {
	out := make(map[string]string, len(result.Outcomes))
	for _, o := range result.Outcomes {
		out[o.Candidate.ID] = o.Outcome
	}
	return out
}

func TestHandleEventSchedulesAdmittedCandidates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := domain.NewMockUserStateRepository(ctrl)
	expectState(states, fullState())

	store := newMemoryStore()
	o := newTestOrchestrator(states, store, monday(7, 0))

	result, err := o.HandleEvent(context.Background(), "user-1", domain.EventAppOpen)
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	want := map[string]string{
		"engagement.morning.2024-05-06":              OutcomeScheduled,
		"engagement.workout_reminder.2024-05-06":     OutcomeScheduled,
		"engagement.checkin_reminder.2024-05-06":     OutcomeScheduled,
		"engagement.macro_nudge.protein.2024-05-06":  OutcomeScheduled,
		"engagement.macro_nudge.calories.2024-05-06": OutcomeRejected,
		"engagement.streak_risk.2024-05-06":          OutcomeScheduled,
	}

	got := outcomesByID(result)
	for id, outcome := range want {
		if got[id] != outcome {
			t.Errorf("%s outcome = %q, want %q", id, got[id], outcome)
		}
	}

	if store.has("user-1", "engagement.macro_nudge.calories.2024-05-06") {
		t.Error("rejected candidate was stored")
	}

	stored, _ := store.PendingNotifications(context.Background(), "user-1")
	if len(stored) != 5 {
		t.Fatalf("stored %d notifications, want 5", len(stored))
	}
	for _, n := range stored {
		meta := n.Meta()
		if meta.Category != domain.CategoryOf(n.ID) {
			t.Errorf("%s stored with category %q", n.ID, meta.Category)
		}
	}
}

func TestHandleEventIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := domain.NewMockUserStateRepository(ctrl)
	expectState(states, fullState())

	store := newMemoryStore()
	o := newTestOrchestrator(states, store, monday(7, 0))
	ctx := context.Background()

	if _, err := o.HandleEvent(ctx, "user-1", domain.EventAppOpen); err != nil {
		t.Fatalf("first pass error = %v", err)
	}
	first := store.snapshot("user-1")

	for i := 0; i < 2; i++ {
		if _, err := o.HandleEvent(ctx, "user-1", domain.EventAppOpen); err != nil {
			t.Fatalf("repeat pass error = %v", err)
		}
	}
	second := store.snapshot("user-1")

	if len(first) != len(second) {
		t.Fatalf("pending set changed: %v -> %v", first, second)
	}
	for i := range first {
		if first[i].ID != second[i].ID || !first[i].Fire.Equal(second[i].Fire) {
			t.Errorf("entry %d changed: %v -> %v", i, first[i], second[i])
		}
	}
}

func TestHandleEventRemovesDisplacedNotifications(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	state := fullState()
	state.TrainingPlan.HasWorkout = false
	state.Macros = domain.MacroStatus{}
	state.CheckIn.SubmittedThisWeek = true

	states := domain.NewMockUserStateRepository(ctrl)
	expectState(states, state)

	store := newMemoryStore()
	ctx := context.Background()
	_ = store.Schedule(ctx, "user-1", testutil.Pending("custom.evening", "custom", domain.PriorityLow, monday(20, 0)))
	_ = store.Schedule(ctx, "user-1", testutil.Pending("rest-timer.1", "rest-timer", domain.PriorityLow, monday(20, 30)))

	o := newTestOrchestrator(states, store, monday(7, 0))

	result, err := o.HandleEvent(ctx, "user-1", domain.EventAppOpen)
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if got := outcomesByID(result)["engagement.streak_risk.2024-05-06"]; got != OutcomeScheduled {
		t.Fatalf("streak outcome = %q, want scheduled", got)
	}
	if store.has("user-1", "custom.evening") {
		t.Error("displaced low-priority notification still pending")
	}
	if !store.has("user-1", "rest-timer.1") {
		t.Error("exempt notification was removed")
	}
}

func TestHandleEventSwallowsScheduleFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := domain.NewMockUserStateRepository(ctrl)
	expectState(states, fullState())

	store := newMemoryStore()
	store.failSchedule["engagement.morning.2024-05-06"] = true

	o := newTestOrchestrator(states, store, monday(7, 0))

	result, err := o.HandleEvent(context.Background(), "user-1", domain.EventAppOpen)
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	got := outcomesByID(result)
	if got["engagement.morning.2024-05-06"] != OutcomeFailed {
		t.Errorf("morning outcome = %q, want failed", got["engagement.morning.2024-05-06"])
	}
	if got["engagement.workout_reminder.2024-05-06"] != OutcomeScheduled {
		t.Errorf("later candidates should still be processed, got %v", got)
	}
}

func TestHandleEventWorkoutCompleted(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	now := monday(12, 0)

	states := domain.NewMockUserStateRepository(ctrl)
	expectState(states, fullState())
	states.EXPECT().
		SaveUserState(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, s *domain.UserState) error {
			if !s.TrainingPlan.Completed {
				t.Error("saved state not marked completed")
			}
			if !s.LastLogAt.Equal(now) {
				t.Errorf("LastLogAt = %v, want %v", s.LastLogAt, now)
			}
			return nil
		})

	store := newMemoryStore()
	ctx := context.Background()
	_ = store.Schedule(ctx, "user-1", testutil.Pending("engagement.workout_reminder.2024-05-06", CategoryWorkoutReminder, domain.PriorityNormal, monday(18, 0)))
	_ = store.Schedule(ctx, "user-1", testutil.Pending("engagement.streak_risk.2024-05-06", CategoryStreakRisk, domain.PriorityHigh, monday(20, 30)))
	_ = store.Schedule(ctx, "user-1", testutil.Pending("engagement.macro_nudge.protein.2024-05-06", CategoryProteinNudge, domain.PriorityNormal, monday(14, 0)))

	o := newTestOrchestrator(states, store, now)

	result, err := o.HandleEvent(ctx, "user-1", domain.EventWorkoutCompleted)
	if err != nil {
		t.Fatalf("HandleEvent() error = %v", err)
	}

	if len(result.Cancelled) != 2 {
		t.Errorf("Cancelled = %v", result.Cancelled)
	}
	if len(result.Outcomes) != 0 {
		t.Errorf("unexpected candidates %v", result.Outcomes)
	}
	if store.has("user-1", "engagement.workout_reminder.2024-05-06") || store.has("user-1", "engagement.streak_risk.2024-05-06") {
		t.Error("workout-related notifications still pending")
	}
	if !store.has("user-1", "engagement.macro_nudge.protein.2024-05-06") {
		t.Error("unrelated notification was cancelled")
	}
}

func TestHandleEventErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := domain.NewMockUserStateRepository(ctrl)
	states.EXPECT().
		GetUserState(gomock.Any(), "ghost").
		Return(nil, domain.ErrUserStateNotFound)

	o := newTestOrchestrator(states, newMemoryStore(), monday(7, 0))

	if _, err := o.HandleEvent(context.Background(), "user-1", domain.Event("nap")); !errors.Is(err, domain.ErrUnknownEvent) {
		t.Errorf("unknown event error = %v, want ErrUnknownEvent", err)
	}

	if _, err := o.HandleEvent(context.Background(), "ghost", domain.EventAppOpen); !errors.Is(err, domain.ErrUserStateNotFound) {
		t.Errorf("missing state error = %v, want ErrUserStateNotFound", err)
	}
}

func TestRunDailyWindow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := domain.NewMockUserStateRepository(ctrl)
	states.EXPECT().
		ListUserIDs(gomock.Any()).
		Return([]string{"user-1", "ghost"}, nil)
	expectState(states, fullState())
	states.EXPECT().
		GetUserState(gomock.Any(), "ghost").
		Return(nil, domain.ErrUserStateNotFound)

	store := newMemoryStore()
	o := newTestOrchestrator(states, store, monday(5, 0))

	completed, err := o.RunDailyWindow(context.Background())
	if err != nil {
		t.Fatalf("RunDailyWindow() error = %v", err)
	}
	if completed != 1 {
		t.Errorf("completed = %d, want 1", completed)
	}
	if !store.has("user-1", "engagement.morning.2024-05-06") {
		t.Error("daily window did not schedule the morning notification")
	}
}

func TestRunDailyWindowListFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	states := domain.NewMockUserStateRepository(ctrl)
	states.EXPECT().
		ListUserIDs(gomock.Any()).
		Return(nil, errors.New("redis down"))

	o := newTestOrchestrator(states, newMemoryStore(), monday(5, 0))

	if _, err := o.RunDailyWindow(context.Background()); err == nil {
		t.Error("expected error")
	}
}
