package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	engagementMeterName = "engagement.service"
)

type EngagementMetrics struct {
	decisions          metric.Int64Counter
	removals           metric.Int64Counter
	evaluationDuration metric.Float64Histogram
	passDuration       metric.Float64Histogram
	candidates         metric.Int64Counter
	storeFailures      metric.Int64Counter
	tasks              metric.Int64Counter
}

func NewEngagementMetrics() (*EngagementMetrics, error) {
	meter := otel.Meter(engagementMeterName)

	decisions, err := meter.Int64Counter(
		"engagement_decisions_total",
		metric.WithDescription("Throttle decisions by reason"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, err
	}

	removals, err := meter.Int64Counter(
		"engagement_removals_total",
		metric.WithDescription("Pending notifications cancelled to make room for a candidate"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, err
	}

	evaluationDuration, err := meter.Float64Histogram(
		"engagement_evaluation_duration_seconds",
		metric.WithDescription("Time spent evaluating one candidate"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.0001, 0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5,
		),
	)
	if err != nil {
		return nil, err
	}

	passDuration, err := meter.Float64Histogram(
		"engagement_pass_duration_seconds",
		metric.WithDescription("Scheduling pass duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5,
		),
	)
	if err != nil {
		return nil, err
	}

	candidates, err := meter.Int64Counter(
		"engagement_candidates_total",
		metric.WithDescription("Candidates produced by the rules and their outcome"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return nil, err
	}

	storeFailures, err := meter.Int64Counter(
		"engagement_store_failures_total",
		metric.WithDescription("Notification store operations that failed"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, err
	}

	tasks, err := meter.Int64Counter(
		"engagement_delivery_tasks_total",
		metric.WithDescription("Delivery task queue operations"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, err
	}

	return &EngagementMetrics{
		decisions:          decisions,
		removals:           removals,
		evaluationDuration: evaluationDuration,
		passDuration:       passDuration,
		candidates:         candidates,
		storeFailures:      storeFailures,
		tasks:              tasks,
	}, nil
}

func (m *EngagementMetrics) RecordDecision(ctx context.Context, reason string, allow bool, priority string) {
	m.decisions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
		attribute.Bool("allow", allow),
		attribute.String("priority", priority),
	))
}

func (m *EngagementMetrics) RecordRemovals(ctx context.Context, reason string, count int) {
	if count <= 0 {
		return
	}
	m.removals.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *EngagementMetrics) RecordEvaluationDuration(ctx context.Context, duration time.Duration) {
	m.evaluationDuration.Record(ctx, duration.Seconds())
}

func (m *EngagementMetrics) RecordPassDuration(ctx context.Context, event string, duration time.Duration) {
	m.passDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("event", event),
	))
}

func (m *EngagementMetrics) RecordCandidate(ctx context.Context, category, outcome string) {
	m.candidates.Add(ctx, 1, metric.WithAttributes(
		attribute.String("category", category),
		attribute.String("outcome", outcome),
	))
}

func (m *EngagementMetrics) RecordStoreFailure(ctx context.Context, operation string) {
	m.storeFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (m *EngagementMetrics) RecordTask(ctx context.Context, operation, outcome string) {
	m.tasks.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
