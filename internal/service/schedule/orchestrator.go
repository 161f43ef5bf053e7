package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/logging"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/metrics"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/tracing"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/throttle"
)

const (
	OutcomeScheduled = "scheduled"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

// CandidateOutcome is what happened to one candidate during a pass.
type CandidateOutcome struct {
	Candidate domain.Candidate `json:"candidate"`
	Decision  domain.Decision  `json:"decision"`
	Outcome   string           `json:"outcome"`
	Error     string           `json:"error,omitempty"`
}

type PassResult struct {
	RunID     string             `json:"run_id"`
	UserID    string             `json:"user_id"`
	Event     domain.Event       `json:"event"`
	Cancelled []string           `json:"cancelled"`
	Outcomes  []CandidateOutcome `json:"outcomes"`
}

func (r *PassResult) count(outcome string) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Outcome == outcome {
			n++
		}
	}
	return n
}

type Orchestrator struct {
	states            domain.UserStateRepository
	store             domain.NotificationStore
	evaluator         *throttle.Evaluator
	lock              domain.PassLock
	recorder          domain.DecisionRecorder
	rules             *Rules
	engagementMetrics *metrics.EngagementMetrics
	defaultLocation   *time.Location
	now               func() time.Time
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func WithDefaultLocation(loc *time.Location) Option {
	return func(o *Orchestrator) {
		if loc != nil {
			o.defaultLocation = loc
		}
	}
}

func WithDecisionRecorder(recorder domain.DecisionRecorder) Option {
	return func(o *Orchestrator) {
		o.recorder = recorder
	}
}

func NewOrchestrator(
	states domain.UserStateRepository,
	store domain.NotificationStore,
	evaluator *throttle.Evaluator,
	lock domain.PassLock,
	engagementMetrics *metrics.EngagementMetrics,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		states:            states,
		store:             store,
		evaluator:         evaluator,
		lock:              lock,
		rules:             NewRules(),
		engagementMetrics: engagementMetrics,
		defaultLocation:   time.UTC,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// HandleEvent runs one scheduling pass for userID. Passes for the same user
// never overlap. Failures to schedule an admitted candidate are logged and
// the candidate is skipped.
func (o *Orchestrator) HandleEvent(ctx context.Context, userID string, event domain.Event) (*PassResult, error) {
	if !event.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownEvent, event)
	}

	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)

	ctx, span := tracing.StartPassSpan(ctx, userID, event.String(), runID)
	defer span.End()

	start := time.Now()

	release, err := o.lock.Acquire(ctx, userID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to acquire pass lock: %w", err)
	}
	defer release()

	state, err := o.states.GetUserState(ctx, userID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to load user state: %w", err)
	}

	now := o.now()
	loc := state.Location(o.defaultLocation)

	if applyEvent(state, event, now) {
		state.UpdatedAt = now
		if err := o.states.SaveUserState(ctx, state); err != nil {
			slog.WarnContext(ctx, "failed to persist event state change",
				slog.String("user_id", userID),
				slog.String("event", event.String()),
				slog.String("error", err.Error()),
			)
		}
	}

	result := &PassResult{
		RunID:     runID,
		UserID:    userID,
		Event:     event,
		Cancelled: []string{},
		Outcomes:  []CandidateOutcome{},
	}

	if ids := o.rules.Cancellations(state, event, now, loc); len(ids) > 0 {
		if err := o.store.Remove(ctx, userID, ids); err != nil {
			o.recordStoreFailure(ctx, "remove")
			slog.WarnContext(ctx, "failed to apply event cancellations",
				slog.String("user_id", userID),
				slog.String("event", event.String()),
				slog.Any("ids", ids),
				slog.String("error", err.Error()),
			)
		} else {
			result.Cancelled = append(result.Cancelled, ids...)
		}
	}

	candidates := o.rules.Candidates(state, event, now, loc)
	records := make([]domain.DecisionRecord, 0, len(candidates))
	removed := 0

	for _, candidate := range candidates {
		outcome := o.process(ctx, userID, loc, now, candidate)
		result.Outcomes = append(result.Outcomes, outcome)

		if outcome.Outcome == OutcomeScheduled {
			removed += len(outcome.Decision.RemoveIDs)
		}

		if o.engagementMetrics != nil {
			o.engagementMetrics.RecordCandidate(ctx, candidate.Category, outcome.Outcome)
		}

		records = append(records, domain.DecisionRecord{
			RunID:        runID,
			UserID:       userID,
			Event:        event.String(),
			Identifier:   candidate.ID,
			Category:     candidate.Category,
			Priority:     candidate.Priority,
			FireDate:     candidate.FireDate,
			Allowed:      outcome.Decision.Allow,
			Reason:       outcome.Decision.Reason,
			RemovedCount: len(outcome.Decision.RemoveIDs),
			Scheduled:    outcome.Outcome == OutcomeScheduled,
		})
	}

	o.recordDecisions(ctx, records)

	tracing.RecordPassResult(span, len(candidates), result.count(OutcomeScheduled), result.count(OutcomeRejected), removed, nil)
	if o.engagementMetrics != nil {
		o.engagementMetrics.RecordPassDuration(ctx, event.String(), time.Since(start))
	}

	slog.InfoContext(ctx, "scheduling pass completed",
		slog.String("user_id", userID),
		slog.String("event", event.String()),
		slog.Int("candidates", len(candidates)),
		slog.Int("scheduled", result.count(OutcomeScheduled)),
		slog.Int("rejected", result.count(OutcomeRejected)),
		slog.Int("failed", result.count(OutcomeFailed)),
		slog.Int("cancelled", len(result.Cancelled)),
		slog.Int("removed", removed),
	)

	return result, nil
}

func (o *Orchestrator) process(ctx context.Context, userID string, loc *time.Location, now time.Time, candidate domain.Candidate) CandidateOutcome {
	decision := o.evaluator.Evaluate(ctx, userID, loc, candidate)
	outcome := CandidateOutcome{
		Candidate: candidate,
		Decision:  decision,
	}

	if !decision.Allow {
		outcome.Outcome = OutcomeRejected
		return outcome
	}

	if err := o.store.Schedule(ctx, userID, candidate.ToPending(now)); err != nil {
		o.recordStoreFailure(ctx, "schedule")
		slog.WarnContext(ctx, "failed to schedule admitted candidate",
			slog.String("user_id", userID),
			slog.String("candidate_id", candidate.ID),
			slog.String("error", err.Error()),
		)
		outcome.Outcome = OutcomeFailed
		outcome.Error = err.Error()
		return outcome
	}

	outcome.Outcome = OutcomeScheduled

	if len(decision.RemoveIDs) > 0 {
		if err := o.store.Remove(ctx, userID, decision.RemoveIDs); err != nil {
			o.recordStoreFailure(ctx, "remove")
			slog.WarnContext(ctx, "failed to remove displaced notifications",
				slog.String("user_id", userID),
				slog.String("candidate_id", candidate.ID),
				slog.Any("remove_ids", decision.RemoveIDs),
				slog.String("error", err.Error()),
			)
		}
	}

	return outcome
}

// RunDailyWindow runs a daily_window pass for every known user and returns
// the number of passes that completed.
func (o *Orchestrator) RunDailyWindow(ctx context.Context) (int, error) {
	userIDs, err := o.states.ListUserIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list users: %w", err)
	}

	completed := 0
	var errs []error

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if _, err := o.HandleEvent(ctx, userID, domain.EventDailyWindow); err != nil {
			slog.WarnContext(ctx, "daily window pass failed",
				slog.String("user_id", userID),
				slog.String("error", err.Error()),
			)
			if !errors.Is(err, domain.ErrUserStateNotFound) {
				errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
			}
			continue
		}
		completed++
	}

	slog.InfoContext(ctx, "daily window completed",
		slog.Int("users", len(userIDs)),
		slog.Int("completed", completed),
	)

	return completed, errors.Join(errs...)
}

func (o *Orchestrator) recordStoreFailure(ctx context.Context, operation string) {
	if o.engagementMetrics != nil {
		o.engagementMetrics.RecordStoreFailure(ctx, operation)
	}
}

func (o *Orchestrator) recordDecisions(ctx context.Context, records []domain.DecisionRecord) {
	if o.recorder == nil || len(records) == 0 {
		return
	}

	if err := o.recorder.RecordDecisions(ctx, records); err != nil {
		slog.WarnContext(ctx, "failed to record decisions",
			slog.Int("count", len(records)),
			slog.String("error", err.Error()),
		)
	}
}

// applyEvent folds the facts carried by event into state and reports whether
// anything changed.
func applyEvent(state *domain.UserState, event domain.Event, now time.Time) bool {
	switch event {
	case domain.EventWorkoutCompleted:
		changed := !state.TrainingPlan.Completed || !state.LastLogAt.Equal(now)
		state.TrainingPlan.Completed = true
		state.LastLogAt = now
		return changed
	case domain.EventCheckInSubmitted:
		if state.CheckIn.SubmittedThisWeek {
			return false
		}
		state.CheckIn.SubmittedThisWeek = true
		return true
	default:
		return false
	}
}
