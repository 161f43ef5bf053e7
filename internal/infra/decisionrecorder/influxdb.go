//go:build !gcloud

package decisionrecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

const decisionMeasurement = "throttle_decision"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	bucket   string
	org      string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.DecisionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "decision recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, decision recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)
	writeAPI := client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket)

	slog.InfoContext(ctx, "decision recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: writeAPI,
		bucket:   cfg.InfluxDBBucket,
		org:      cfg.InfluxDBOrg,
	}, nil
}

func decisionPoint(record domain.DecisionRecord, recordedAt time.Time) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "default"
	}

	return influxdb2.NewPoint(
		decisionMeasurement,
		map[string]string{
			"run_id":   runID,
			"event":    record.Event,
			"category": record.Category,
			"priority": record.Priority.String(),
			"reason":   record.Reason.String(),
		},
		map[string]any{
			"user_id":       record.UserID,
			"identifier":    record.Identifier,
			"allowed":       record.Allowed,
			"scheduled":     record.Scheduled,
			"removed_count": record.RemovedCount,
			"fire_unix":     record.FireDate.Unix(),
		},
		recordedAt,
	)
}

// RecordDecisions writes one point per decision. Write failures are logged
// and do not fail the pass.
func (r *influxDBRecorder) RecordDecisions(ctx context.Context, records []domain.DecisionRecord) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*write.Point, 0, len(records))
	for i, record := range records {
		// Distinct timestamps keep points of one pass from overwriting each other.
		points = append(points, decisionPoint(record, time.Now().Add(time.Duration(i)*time.Microsecond)))
	}

	if err := r.writeAPI.WritePoint(ctx, points...); err != nil {
		slog.WarnContext(ctx, "failed to write decisions to InfluxDB",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
