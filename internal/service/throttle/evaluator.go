package throttle

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/metrics"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/observability/tracing"
	"github.com/KasumiMercury/primind-engagement-notifications/internal/service/pending"
)

type Evaluator struct {
	reader            domain.PendingReader
	classifier        *pending.Classifier
	policy            Policy
	engagementMetrics *metrics.EngagementMetrics
	now               func() time.Time
}

type Option func(*Evaluator)

// WithClock overrides the time source used to resolve relative triggers.
func WithClock(now func() time.Time) Option {
	return func(e *Evaluator) {
		e.now = now
	}
}

func NewEvaluator(
	reader domain.PendingReader,
	classifier *pending.Classifier,
	engagementMetrics *metrics.EngagementMetrics,
	opts ...Option,
) *Evaluator {
	e := &Evaluator{
		reader:            reader,
		classifier:        classifier,
		policy:            DefaultPolicy(),
		engagementMetrics: engagementMetrics,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Evaluate decides whether candidate may be scheduled for userID given the
// user's current pending set. An unreadable pending set is treated as empty.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, loc *time.Location, candidate domain.Candidate) domain.Decision {
	ctx, span := tracing.StartEvaluationSpan(ctx, userID, candidate.ID, candidate.Category, candidate.Priority.String())
	defer span.End()

	start := time.Now()

	if e.classifier.IsExempt(candidate.ID) {
		decision := domain.Admit(domain.ReasonExempt, nil)
		e.observe(ctx, span, candidate, decision, start)
		return decision
	}

	var notifications []domain.PendingNotification
	if e.reader != nil {
		var err error
		notifications, err = e.reader.PendingNotifications(ctx, userID)
		if err != nil {
			slog.WarnContext(ctx, "failed to read pending notifications, evaluating against empty set",
				slog.String("user_id", userID),
				slog.String("candidate_id", candidate.ID),
				slog.String("error", err.Error()),
			)
			notifications = nil
		}
	}

	entries := e.classifier.Classify(notifications, candidate.FireDate, e.now(), loc)
	decision := e.Decide(candidate, entries)

	e.observe(ctx, span, candidate, decision, start)

	return decision
}

func (e *Evaluator) observe(ctx context.Context, span trace.Span, candidate domain.Candidate, decision domain.Decision, start time.Time) {
	tracing.RecordDecisionResult(span, decision.Allow, decision.Reason.String(), len(decision.RemoveIDs))

	if e.engagementMetrics != nil {
		e.engagementMetrics.RecordDecision(ctx, decision.Reason.String(), decision.Allow, candidate.Priority.String())
		e.engagementMetrics.RecordRemovals(ctx, decision.Reason.String(), len(decision.RemoveIDs))
		e.engagementMetrics.RecordEvaluationDuration(ctx, time.Since(start))
	}

	slog.DebugContext(ctx, "candidate evaluated",
		slog.String("candidate_id", candidate.ID),
		slog.String("category", candidate.Category),
		slog.String("priority", candidate.Priority.String()),
		slog.Time("fire_date", candidate.FireDate),
		slog.Bool("allow", decision.Allow),
		slog.String("reason", decision.Reason.String()),
		slog.Any("remove_ids", decision.RemoveIDs),
	)
}

// Decide runs the admission algorithm against entries, which are expected to
// be the classified same-day pending set. The first terminal condition wins:
// exemption, category conflict, spacing conflict, hard cap, soft cap.
func (e *Evaluator) Decide(candidate domain.Candidate, entries []domain.PendingEntry) domain.Decision {
	if e.classifier.IsExempt(candidate.ID) {
		return domain.Admit(domain.ReasonExempt, nil)
	}

	sameDay := make([]domain.PendingEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.ID == candidate.ID || e.classifier.IsExempt(entry.ID) {
			continue
		}
		sameDay = append(sameDay, entry)
	}

	removals := newRemovalSet()

	// Category conflict: the strongest same-category entry decides.
	var sameCategory []domain.PendingEntry
	strongest := domain.Priority(0)
	for _, entry := range sameDay {
		if entry.Category != candidate.Category {
			continue
		}
		sameCategory = append(sameCategory, entry)
		if entry.Priority > strongest {
			strongest = entry.Priority
		}
	}

	if len(sameCategory) > 0 {
		if strongest > candidate.Priority {
			return domain.Reject(domain.ReasonCategoryConflict)
		}
		for _, entry := range sameCategory {
			removals.Add(entry.ID)
		}
	}

	// Spacing conflict.
	var tooClose []domain.PendingEntry
	for _, entry := range sameDay {
		if absDuration(entry.FireDate.Sub(candidate.FireDate)) < e.policy.MinSpacing {
			tooClose = append(tooClose, entry)
		}
	}

	for _, entry := range tooClose {
		if entry.Priority >= candidate.Priority && !removals.Contains(entry.ID) {
			return domain.Reject(domain.ReasonSpacingConflict)
		}
	}

	for _, entry := range tooClose {
		if entry.Priority < candidate.Priority {
			removals.Add(entry.ID)
		}
	}

	// Daily caps.
	survivors := make([]domain.PendingEntry, 0, len(sameDay))
	for _, entry := range sameDay {
		if !removals.Contains(entry.ID) {
			survivors = append(survivors, entry)
		}
	}

	projected := len(survivors) + 1

	if projected > e.policy.HardDailyCap {
		if candidate.Priority < domain.PriorityCritical {
			return domain.Reject(domain.ReasonHardCap)
		}

		evictable := make([]domain.PendingEntry, 0, len(survivors))
		for _, entry := range survivors {
			if entry.Priority < candidate.Priority {
				evictable = append(evictable, entry)
			}
		}

		sort.SliceStable(evictable, func(i, j int) bool {
			if evictable[i].Priority != evictable[j].Priority {
				return evictable[i].Priority < evictable[j].Priority
			}
			return evictable[i].FireDate.After(evictable[j].FireDate)
		})

		for _, entry := range evictable {
			if projected <= e.policy.HardDailyCap {
				break
			}
			removals.Add(entry.ID)
			projected--
		}

		if projected > e.policy.HardDailyCap {
			return domain.Reject(domain.ReasonHardCap)
		}
	} else if projected > e.policy.PreferredDailyCap && candidate.Priority < domain.PriorityHigh {
		return domain.Reject(domain.ReasonSoftCap)
	}

	return domain.Admit(domain.ReasonAdmitted, removals.IDs())
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
