package tracing

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const engagementTracerName = "github.com/KasumiMercury/primind-engagement-notifications/internal/service"

func EngagementTracer() trace.Tracer {
	return otel.Tracer(engagementTracerName)
}

func StartPassSpan(ctx context.Context, userID, event, runID string) (context.Context, trace.Span) {
	return EngagementTracer().Start(ctx, "engagement.scheduling_pass",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("event", event),
			attribute.String("run_id", runID),
		),
	)
}

func StartEvaluationSpan(ctx context.Context, userID, candidateID, category, priority string) (context.Context, trace.Span) {
	return EngagementTracer().Start(ctx, "engagement.evaluate",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("candidate.id", candidateID),
			attribute.String("candidate.category", category),
			attribute.String("candidate.priority", priority),
		),
	)
}

func StartExternalAPISpan(ctx context.Context, operation, url string) (context.Context, trace.Span) {
	return EngagementTracer().Start(ctx, "engagement.external_api."+operation,
		trace.WithAttributes(
			attribute.String("url", url),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordPassResult(span trace.Span, candidates, scheduled, rejected, removed int, err error) {
	span.SetAttributes(
		attribute.Int("pass.candidate_count", candidates),
		attribute.Int("pass.scheduled_count", scheduled),
		attribute.Int("pass.rejected_count", rejected),
		attribute.Int("pass.removed_count", removed),
	)
	RecordError(span, err)
}

func RecordDecisionResult(span trace.Span, allow bool, reason string, removed int) {
	span.SetAttributes(
		attribute.Bool("decision.allow", allow),
		attribute.String("decision.reason", reason),
		attribute.Int("decision.removed_count", removed),
	)
}

func RecordDispatchTime(span trace.Span, fireAt time.Time) {
	span.SetAttributes(attribute.String("dispatch.fire_at", fireAt.Format(time.RFC3339)))
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// InjectToHTTPRequest propagates the active trace context to an outgoing
// request.
func InjectToHTTPRequest(ctx context.Context, req *http.Request) {
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))
}

// ExtractFromHTTPRequest returns a context carrying the remote span from an
// incoming request.
func ExtractFromHTTPRequest(ctx context.Context, req *http.Request) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, propagation.HeaderCarrier(req.Header))
}
