package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/logging"
)

const (
	dailyWindowTimeout = 10 * time.Minute
	deliveryTimeout    = time.Minute

	sweepSpec         = "@every 5m"
	localDeliverySpec = "@every 1m"

	rateLimiterMaxIdle = 10 * time.Minute
)

type DailyWindowRunner interface {
	RunDailyWindow(ctx context.Context) (int, error)
}

type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

type DueSource interface {
	Due(now time.Time) []taskqueue.NotificationTask
}

type DeliveryHandler interface {
	Delivered(ctx context.Context, userID, id string, firedAt time.Time) (*domain.PendingNotification, error)
}

type Config struct {
	// DailyWindowSpec is a standard cron expression. Empty disables the
	// daily-window pass.
	DailyWindowSpec string
	Location        *time.Location
}

// Scheduler runs the periodic jobs of the service.
type Scheduler struct {
	cronEngine *cron.Cron
	cfg        Config
	runner     DailyWindowRunner
	sweeper    Sweeper
	dueSource  DueSource
	delivery   DeliveryHandler
	now        func() time.Time
}

type Option func(*Scheduler)

// WithSweeper evicts idle rate limiter entries on a fixed interval.
func WithSweeper(sweeper Sweeper) Option {
	return func(s *Scheduler) {
		s.sweeper = sweeper
	}
}

// WithLocalDelivery delivers tasks of an in-process queue once they are due.
func WithLocalDelivery(source DueSource, handler DeliveryHandler) Option {
	return func(s *Scheduler) {
		s.dueSource = source
		s.delivery = handler
	}
}

func New(cfg Config, runner DailyWindowRunner, opts ...Option) *Scheduler {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		cronEngine: cron.New(cron.WithLocation(loc)),
		cfg:        cfg,
		runner:     runner,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Scheduler) Start(ctx context.Context) error {
	if s.cfg.DailyWindowSpec != "" && s.runner != nil {
		if _, err := s.cronEngine.AddFunc(s.cfg.DailyWindowSpec, func() { s.runDailyWindow(ctx) }); err != nil {
			return fmt.Errorf("failed to add daily window job: %w", err)
		}
	}

	if s.sweeper != nil {
		if _, err := s.cronEngine.AddFunc(sweepSpec, func() { s.sweep(ctx) }); err != nil {
			return fmt.Errorf("failed to add rate limiter sweep job: %w", err)
		}
	}

	if s.dueSource != nil && s.delivery != nil {
		if _, err := s.cronEngine.AddFunc(localDeliverySpec, func() { s.deliverDue(ctx) }); err != nil {
			return fmt.Errorf("failed to add local delivery job: %w", err)
		}
	}

	s.cronEngine.Start()

	slog.InfoContext(ctx, "scheduler started",
		slog.String("daily_window_spec", s.cfg.DailyWindowSpec),
		slog.Int("job_count", len(s.cronEngine.Entries())),
	)

	return nil
}

// Stop waits for running jobs to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cronEngine.Stop()

	select {
	case <-done.Done():
		slog.InfoContext(ctx, "scheduler stopped")
	case <-ctx.Done():
		slog.WarnContext(ctx, "scheduler stop timed out")
	}
}

func (s *Scheduler) runDailyWindow(parent context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), dailyWindowTimeout)
	defer cancel()
	ctx = logging.WithModule(ctx, logging.Module("scheduler"))

	start := s.now()
	count, err := s.runner.RunDailyWindow(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "daily window pass failed",
			slog.String("event", "scheduler.daily_window.fail"),
			slog.Int("user_count", count),
			slog.String("error", err.Error()),
		)
		return
	}

	slog.InfoContext(ctx, "daily window pass completed",
		slog.Int("user_count", count),
		slog.Duration("duration", s.now().Sub(start)),
	)
}

func (s *Scheduler) sweep(ctx context.Context) {
	if evicted := s.sweeper.Sweep(rateLimiterMaxIdle); evicted > 0 {
		slog.DebugContext(ctx, "rate limiter entries evicted",
			slog.Int("evicted", evicted),
		)
	}
}

func (s *Scheduler) deliverDue(parent context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), deliveryTimeout)
	defer cancel()

	for _, task := range s.dueSource.Due(s.now()) {
		if _, err := s.delivery.Delivered(ctx, task.UserID, task.NotificationID, task.FireAt); err != nil {
			level := slog.LevelWarn
			if errors.Is(err, domain.ErrNotificationNotFound) || errors.Is(err, domain.ErrStaleDelivery) {
				level = slog.LevelDebug
			}
			slog.Log(ctx, level, "local delivery failed",
				slog.String("task_id", task.TaskID),
				slog.String("user_id", task.UserID),
				slog.String("notification_id", task.NotificationID),
				slog.String("error", err.Error()),
			)
			continue
		}

		slog.InfoContext(ctx, "local delivery",
			slog.String("task_id", task.TaskID),
			slog.String("user_id", task.UserID),
			slog.String("notification_id", task.NotificationID),
			slog.String("title", task.Title),
		)
	}
}
