//go:build gcloud

package logging

import (
	"context"
	"fmt"
	"log/slog"
)

// gcpTraceAttrs emits the Cloud Logging trace correlation fields.
func gcpTraceAttrs(ctx context.Context, projectID string) []slog.Attr {
	sc, ok := spanContext(ctx)
	if !ok {
		return nil
	}

	traceID := sc.TraceID().String()
	if projectID != "" {
		traceID = fmt.Sprintf("projects/%s/traces/%s", projectID, traceID)
	}

	return []slog.Attr{
		slog.String("logging.googleapis.com/trace", traceID),
		slog.String("logging.googleapis.com/spanId", sc.SpanID().String()),
		slog.Bool("logging.googleapis.com/trace_sampled", sc.IsSampled()),
	}
}
