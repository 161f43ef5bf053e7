package decisionrecorder

import (
	"context"

	"github.com/KasumiMercury/primind-engagement-notifications/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.DecisionRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordDecisions(_ context.Context, _ []domain.DecisionRecord) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
