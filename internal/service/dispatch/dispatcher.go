package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/infra/taskqueue"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/metrics"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/throttle"
)

const (
	outcomeSuccess = "success"
	outcomeFailure = "failure"
)

// RegisterRequest is an app-defined notification submitted directly rather
// than derived by the rules.
type RegisterRequest struct {
	ID       string
	Title    string
	Body     string
	Trigger  domain.Trigger
	Category string
	Priority domain.Priority
}

// Dispatcher is the notification store: pending records live in the
// repository and each scheduled occurrence has a delivery task.
type Dispatcher struct {
	repo              domain.PendingRepository
	queue             taskqueue.TaskQueue
	evaluator         *throttle.Evaluator
	states            domain.UserStateRepository
	lock              domain.PassLock
	engagementMetrics *metrics.EngagementMetrics
	defaultLocation   *time.Location
	now               func() time.Time
}

type Option func(*Dispatcher)

func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

func WithDefaultLocation(loc *time.Location) Option {
	return func(d *Dispatcher) {
		if loc != nil {
			d.defaultLocation = loc
		}
	}
}

func NewDispatcher(
	repo domain.PendingRepository,
	queue taskqueue.TaskQueue,
	evaluator *throttle.Evaluator,
	states domain.UserStateRepository,
	lock domain.PassLock,
	engagementMetrics *metrics.EngagementMetrics,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		repo:              repo,
		queue:             queue,
		evaluator:         evaluator,
		states:            states,
		lock:              lock,
		engagementMetrics: engagementMetrics,
		defaultLocation:   time.UTC,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Dispatcher) PendingNotifications(ctx context.Context, userID string) ([]domain.PendingNotification, error) {
	return d.repo.PendingNotifications(ctx, userID)
}

// Schedule stores notification, replacing any record with the same
// identifier, and queues its delivery. When the task cannot be queued the
// previous record is restored.
func (d *Dispatcher) Schedule(ctx context.Context, userID string, notification domain.PendingNotification) error {
	now := d.now()

	fireAt, ok := notification.Trigger.DispatchTime(now)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrMissingFireDate, notification.ID)
	}

	previous, err := d.repo.GetPending(ctx, userID, notification.ID)
	if err != nil && !errors.Is(err, domain.ErrNotificationNotFound) {
		return fmt.Errorf("failed to read existing notification: %w", err)
	}

	if notification.ScheduledAt.IsZero() {
		notification.ScheduledAt = now
	}
	notification.DispatchAt = fireAt

	if err := d.repo.SavePending(ctx, userID, notification); err != nil {
		return fmt.Errorf("failed to save pending notification: %w", err)
	}

	if err := d.enqueue(ctx, userID, notification, fireAt); err != nil {
		d.restore(ctx, userID, notification.ID, previous)
		return err
	}

	if previous != nil {
		if prevFire, ok := previous.TaskTime(now); ok && !prevFire.Equal(fireAt) {
			d.deleteTask(ctx, userID, previous.ID, prevFire)
		}
	}

	return nil
}

// Remove cancels the given identifiers. Task deletion failures are logged;
// the delivery callback ignores tasks whose record is gone or has moved to
// another fire time.
func (d *Dispatcher) Remove(ctx context.Context, userID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	now := d.now()

	for _, id := range ids {
		n, err := d.repo.GetPending(ctx, userID, id)
		if err != nil {
			if !errors.Is(err, domain.ErrNotificationNotFound) {
				slog.WarnContext(ctx, "failed to look up notification for task deletion",
					slog.String("user_id", userID),
					slog.String("notification_id", id),
					slog.String("error", err.Error()),
				)
			}
			continue
		}

		if fireAt, ok := n.TaskTime(now); ok {
			d.deleteTask(ctx, userID, id, fireAt)
		}
	}

	if err := d.repo.DeletePending(ctx, userID, ids); err != nil {
		return fmt.Errorf("failed to delete pending notifications: %w", err)
	}

	slog.InfoContext(ctx, "pending notifications removed",
		slog.String("user_id", userID),
		slog.Any("ids", ids),
	)

	return nil
}

// Delivered ends a pending notification after the delivery of the task that
// fired at firedAt. Repeating notifications are re-armed to their next
// occurrence and returned; nil is returned when the notification ended.
// A task for an occurrence the record no longer holds is stale and reported
// with ErrStaleDelivery, leaving the record untouched.
func (d *Dispatcher) Delivered(ctx context.Context, userID, id string, firedAt time.Time) (*domain.PendingNotification, error) {
	release, err := d.lock.Acquire(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire pass lock: %w", err)
	}
	defer release()

	n, err := d.repo.GetPending(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	now := d.now()

	if current, ok := n.TaskTime(now); !ok || !current.Equal(firedAt) {
		slog.WarnContext(ctx, "stale delivery ignored",
			slog.String("user_id", userID),
			slog.String("notification_id", id),
			slog.Time("fired_at", firedAt),
			slog.Time("current_fire", current),
		)
		return nil, fmt.Errorf("%w: %s", domain.ErrStaleDelivery, id)
	}

	next, ok := n.Trigger.Advance(now)
	if !ok {
		if err := d.repo.DeletePending(ctx, userID, []string{id}); err != nil {
			return nil, fmt.Errorf("failed to delete delivered notification: %w", err)
		}

		slog.InfoContext(ctx, "notification delivered",
			slog.String("user_id", userID),
			slog.String("notification_id", id),
		)
		return nil, nil
	}

	rearmed := *n
	rearmed.Trigger = next
	rearmed.ScheduledAt = now

	if err := d.Schedule(ctx, userID, rearmed); err != nil {
		return nil, fmt.Errorf("failed to re-arm repeating notification: %w", err)
	}

	slog.InfoContext(ctx, "repeating notification re-armed",
		slog.String("user_id", userID),
		slog.String("notification_id", id),
		slog.Time("next_fire", next.NextFire),
	)

	return &rearmed, nil
}

// Register schedules an app-defined notification. Exempt and repeating
// notifications bypass the throttle; one-offs are evaluated like rule
// candidates and rejected with ErrNotificationRejected.
func (d *Dispatcher) Register(ctx context.Context, userID string, req RegisterRequest) (domain.Decision, error) {
	now := d.now()
	trigger := normalizeTrigger(req.Trigger, now)

	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = domain.CategoryOf(req.ID)
	}

	priority := req.Priority
	if !priority.IsValid() {
		priority = domain.PriorityNormal
	}

	notification := domain.PendingNotification{
		ID:      req.ID,
		Title:   req.Title,
		Body:    req.Body,
		Trigger: trigger,
		UserInfo: map[string]any{
			domain.UserInfoCategoryKey: category,
			domain.UserInfoPriorityKey: int(priority),
		},
		ScheduledAt: now,
	}

	release, err := d.lock.Acquire(ctx, userID)
	if err != nil {
		return domain.Decision{}, fmt.Errorf("failed to acquire pass lock: %w", err)
	}
	defer release()

	if trigger.Repeats {
		if err := d.Schedule(ctx, userID, notification); err != nil {
			return domain.Decision{}, err
		}
		return domain.Admit(domain.ReasonUnthrottled, nil), nil
	}

	fireAt, ok := trigger.NextFireDate(now)
	if !ok {
		return domain.Decision{}, fmt.Errorf("%w: %s", domain.ErrMissingFireDate, req.ID)
	}

	candidate := domain.Candidate{
		ID:       req.ID,
		FireDate: fireAt,
		Category: category,
		Priority: priority,
		Title:    req.Title,
		Body:     req.Body,
	}

	decision := d.evaluator.Evaluate(ctx, userID, d.location(ctx, userID), candidate)
	if !decision.Allow {
		return decision, domain.ErrNotificationRejected
	}

	if err := d.Schedule(ctx, userID, notification); err != nil {
		return domain.Decision{}, err
	}

	if err := d.Remove(ctx, userID, decision.RemoveIDs); err != nil {
		slog.WarnContext(ctx, "failed to remove displaced notifications",
			slog.String("user_id", userID),
			slog.String("notification_id", req.ID),
			slog.String("error", err.Error()),
		)
	}

	return decision, nil
}

func (d *Dispatcher) location(ctx context.Context, userID string) *time.Location {
	if d.states == nil {
		return d.defaultLocation
	}

	state, err := d.states.GetUserState(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrUserStateNotFound) {
			slog.WarnContext(ctx, "failed to load user state, using default location",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
		return d.defaultLocation
	}

	return state.Location(d.defaultLocation)
}

func (d *Dispatcher) enqueue(ctx context.Context, userID string, n domain.PendingNotification, fireAt time.Time) error {
	meta := n.Meta()

	task := &taskqueue.NotificationTask{
		TaskID:         taskqueue.TaskID(userID, n.ID, fireAt),
		ScheduleAt:     fireAt,
		UserID:         userID,
		NotificationID: n.ID,
		Title:          n.Title,
		Body:           n.Body,
		Category:       meta.Category,
		Priority:       int(meta.Priority),
		FireAt:         fireAt,
	}

	if _, err := d.queue.RegisterNotification(ctx, task); err != nil {
		d.recordTask(ctx, "register", outcomeFailure)
		return fmt.Errorf("failed to register delivery task: %w", err)
	}

	d.recordTask(ctx, "register", outcomeSuccess)
	return nil
}

func (d *Dispatcher) deleteTask(ctx context.Context, userID, id string, fireAt time.Time) {
	taskID := taskqueue.TaskID(userID, id, fireAt)

	if err := d.queue.DeleteTask(ctx, taskID); err != nil {
		d.recordTask(ctx, "delete", outcomeFailure)
		slog.WarnContext(ctx, "failed to delete delivery task",
			slog.String("user_id", userID),
			slog.String("notification_id", id),
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		return
	}

	d.recordTask(ctx, "delete", outcomeSuccess)
}

func (d *Dispatcher) restore(ctx context.Context, userID, id string, previous *domain.PendingNotification) {
	var err error
	if previous != nil {
		err = d.repo.SavePending(ctx, userID, *previous)
	} else {
		err = d.repo.DeletePending(ctx, userID, []string{id})
	}

	if err != nil {
		slog.WarnContext(ctx, "failed to roll back pending notification",
			slog.String("user_id", userID),
			slog.String("notification_id", id),
			slog.String("error", err.Error()),
		)
	}
}

func (d *Dispatcher) recordTask(ctx context.Context, operation, outcome string) {
	if d.engagementMetrics != nil {
		d.engagementMetrics.RecordTask(ctx, operation, outcome)
	}
}

// normalizeTrigger pins relative triggers to an absolute time so the stored
// record keeps a stable fire date.
func normalizeTrigger(t domain.Trigger, now time.Time) domain.Trigger {
	if t.Kind != domain.TriggerInterval || t.Interval <= 0 {
		return t
	}

	next := now.Add(t.Interval)
	if t.Repeats {
		return domain.RepeatingCalendarTrigger(next, t.Interval)
	}
	return domain.CalendarTrigger(next)
}
