//go:build gcloud

package decisionrecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt   time.Time `bigquery:"recorded_at"`
	RunID        string    `bigquery:"run_id"`
	UserID       string    `bigquery:"user_id"`
	Event        string    `bigquery:"event"`
	Identifier   string    `bigquery:"identifier"`
	Category     string    `bigquery:"category"`
	Priority     string    `bigquery:"priority"`
	FireDate     time.Time `bigquery:"fire_date"`
	Allowed      bool      `bigquery:"allowed"`
	Reason       string    `bigquery:"reason"`
	RemovedCount int64     `bigquery:"removed_count"`
	Scheduled    bool      `bigquery:"scheduled"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.DecisionRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "decision recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, decision recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, decision recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	inserter := client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter()

	slog.InfoContext(ctx, "decision recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: inserter,
		dataset:  cfg.BigQueryDataset,
		table:    cfg.BigQueryTable,
	}, nil
}

func (r *bigQueryRecorder) RecordDecisions(ctx context.Context, records []domain.DecisionRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQueryRecord{
			RecordedAt:   now,
			RunID:        record.RunID,
			UserID:       record.UserID,
			Event:        record.Event,
			Identifier:   record.Identifier,
			Category:     record.Category,
			Priority:     record.Priority.String(),
			FireDate:     record.FireDate,
			Allowed:      record.Allowed,
			Reason:       record.Reason.String(),
			RemovedCount: int64(record.RemovedCount),
			Scheduled:    record.Scheduled,
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert decisions to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
