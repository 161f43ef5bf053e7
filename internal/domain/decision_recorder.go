package domain

import (
	"context"
	"time"
)

type DecisionRecord struct {
	RunID        string
	UserID       string
	Event        string
	Identifier   string
	Category     string
	Priority     Priority
	FireDate     time.Time
	Allowed      bool
	Reason       DecisionReason
	RemovedCount int
	Scheduled    bool
}

type DecisionRecorder interface {
	RecordDecisions(ctx context.Context, records []DecisionRecord) error
	Close() error
}
