//go:build !gcloud

package decisionrecorder

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

func TestNewRecorderFallsBackToNoop(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{name: "disabled", cfg: &Config{Disabled: true, InfluxDBToken: "t", InfluxDBOrg: "o"}},
		{name: "missing credentials", cfg: &Config{InfluxDBURL: "http://localhost:8086"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NewRecorder(context.Background(), tt.cfg)
			if err != nil {
				t.Fatalf("NewRecorder() error = %v", err)
			}
			if _, ok := rec.(*noopRecorder); !ok {
				t.Errorf("NewRecorder() = %T, want *noopRecorder", rec)
			}
			if err := rec.RecordDecisions(context.Background(), []domain.DecisionRecord{{RunID: "r"}}); err != nil {
				t.Errorf("RecordDecisions() error = %v", err)
			}
			if err := rec.Close(); err != nil {
				t.Errorf("Close() error = %v", err)
			}
		})
	}
}

func TestDecisionPoint(t *testing.T) {
	fire := time.Date(2024, 5, 1, 20, 30, 0, 0, time.UTC)
	recordedAt := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	point := decisionPoint(domain.DecisionRecord{
		UserID:       "user-1",
		Event:        "app_open",
		Identifier:   "engagement.streak_risk.2024-05-01",
		Category:     "engagement.streak_risk",
		Priority:     domain.PriorityCritical,
		FireDate:     fire,
		Allowed:      true,
		Reason:       domain.ReasonAdmitted,
		RemovedCount: 2,
		Scheduled:    true,
	}, recordedAt)

	line := write.PointToLineProtocol(point, time.Second)

	for _, want := range []string{
		"throttle_decision,",
		"run_id=default",
		"priority=critical",
		"reason=admitted",
		"removed_count=2i",
		"allowed=true",
		`identifier="engagement.streak_risk.2024-05-01"`,
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol %q missing %q", line, want)
		}
	}
}
