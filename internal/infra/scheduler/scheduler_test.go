package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/taskqueue"
)

type fakeRunner struct {
	calls int
	err   error
}

func (f *fakeRunner) RunDailyWindow(ctx context.Context) (int, error) {
	f.calls++
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("daily window ran without a deadline")
	}
	return 3, f.err
}

type fakeSweeper struct {
	maxIdle time.Duration
}

func (f *fakeSweeper) Sweep(maxIdle time.Duration) int {
	f.maxIdle = maxIdle
	return 1
}

type fakeDelivery struct {
	mu        sync.Mutex
	delivered []string
	fail      map[string]error
}

func (f *fakeDelivery) Delivered(_ context.Context, userID, id string, _ time.Time) (*domain.PendingNotification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.fail[id]; err != nil {
		return nil, err
	}
	f.delivered = append(f.delivered, userID+"/"+id)
	return nil, nil
}

func TestStartRejectsInvalidSpec(t *testing.T) {
	s := New(Config{DailyWindowSpec: "not a cron"}, &fakeRunner{})

	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Start() error = nil, want error")
	}
}

func TestStartRegistersJobs(t *testing.T) {
	queue := taskqueue.NewMemoryQueue()

	tests := []struct {
		name string
		cfg  Config
		opts []Option
		want int
	}{
		{name: "daily window only", cfg: Config{DailyWindowSpec: "0 6 * * *"}, want: 1},
		{name: "disabled daily window", cfg: Config{}, want: 0},
		{
			name: "all jobs",
			cfg:  Config{DailyWindowSpec: "0 6 * * *", Location: time.UTC},
			opts: []Option{WithSweeper(&fakeSweeper{}), WithLocalDelivery(queue, &fakeDelivery{})},
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.cfg, &fakeRunner{}, tt.opts...)
			if err := s.Start(context.Background()); err != nil {
				t.Fatalf("Start() error = %v", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			defer s.Stop(ctx)

			if got := len(s.cronEngine.Entries()); got != tt.want {
				t.Errorf("entries = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunDailyWindow(t *testing.T) {
	runner := &fakeRunner{}
	s := New(Config{}, runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// The job outlives a cancelled parent context.
	s.runDailyWindow(ctx)
	runner.err = errors.New("redis down")
	s.runDailyWindow(ctx)

	if runner.calls != 2 {
		t.Errorf("calls = %d, want 2", runner.calls)
	}
}

func TestSweep(t *testing.T) {
	sweeper := &fakeSweeper{}
	s := New(Config{}, nil, WithSweeper(sweeper))

	s.sweep(context.Background())

	if sweeper.maxIdle != rateLimiterMaxIdle {
		t.Errorf("maxIdle = %v, want %v", sweeper.maxIdle, rateLimiterMaxIdle)
	}
}

func TestDeliverDue(t *testing.T) {
	now := time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)
	queue := taskqueue.NewMemoryQueue()
	ctx := context.Background()

	for _, task := range []taskqueue.NotificationTask{
		{TaskID: "t1", UserID: "user-1", NotificationID: "due", ScheduleAt: now.Add(-time.Minute)},
		{TaskID: "t2", UserID: "user-1", NotificationID: "gone", ScheduleAt: now},
		{TaskID: "t3", UserID: "user-1", NotificationID: "later", ScheduleAt: now.Add(time.Hour)},
	} {
		if _, err := queue.RegisterNotification(ctx, &task); err != nil {
			t.Fatalf("RegisterNotification() error = %v", err)
		}
	}

	delivery := &fakeDelivery{fail: map[string]error{"gone": domain.ErrNotificationNotFound}}
	s := New(Config{}, nil, WithLocalDelivery(queue, delivery))
	s.now = func() time.Time { return now }

	s.deliverDue(ctx)

	if len(delivery.delivered) != 1 || delivery.delivered[0] != "user-1/due" {
		t.Errorf("delivered = %v, want [user-1/due]", delivery.delivered)
	}

	remaining := queue.Tasks()
	if len(remaining) != 1 || remaining[0].NotificationID != "later" {
		t.Errorf("remaining = %+v, want only the future task", remaining)
	}
}
