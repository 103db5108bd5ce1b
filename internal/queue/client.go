package queue

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Client publishes analysis jobs for the worker process.
type Client interface {
	Enqueue(ctx context.Context, msg Message) error
}

// AnalysisEnqueuer adapts a Client to the analysis service's enqueue hook.
type AnalysisEnqueuer struct {
	client Client
}

func NewAnalysisEnqueuer(client Client) *AnalysisEnqueuer {
	return &AnalysisEnqueuer{client: client}
}

func (e *AnalysisEnqueuer) EnqueueAnalysis(ctx context.Context, analysisID string) error {
	return e.client.Enqueue(ctx, Message{
		AnalysisID: analysisID,
		RequestID:  uuid.NewString(),
		EnqueuedAt: time.Now().UTC(),
		Version:    MessageVersion,
	})
}
