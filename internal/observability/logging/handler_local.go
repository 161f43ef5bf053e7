//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// gcpTraceAttrs emits plain trace identifiers outside GCP.
func gcpTraceAttrs(ctx context.Context, _ string) []slog.Attr {
	sc, ok := spanContext(ctx)
	if !ok {
		return nil
	}

	return []slog.Attr{
		slog.String("trace_id", sc.TraceID().String()),
		slog.String("span_id", sc.SpanID().String()),
	}
}
