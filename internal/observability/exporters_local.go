//go:build !gcloud

package observability

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
)

// newExporters enables OTLP over HTTP only when a collector endpoint is
// configured. The exporters read the standard OTEL_EXPORTER_OTLP_* variables.
func newExporters(ctx context.Context, _ Config) (exporterSet, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return exporterSet{name: "none"}, nil
	}

	spanExporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return exporterSet{}, fmt.Errorf("failed to create otlp trace exporter: %w", err)
	}

	metricExporter, err := otlpmetrichttp.New(ctx)
	if err != nil {
		return exporterSet{}, fmt.Errorf("failed to create otlp metric exporter: %w", err)
	}

	return exporterSet{
		name:   "otlp_http",
		span:   spanExporter,
		metric: metricExporter,
	}, nil
}
