package history

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"paragraph-backend/internal/shared/telemetry"
)

// Service records completed analyses. Recording is best effort: a
// storage failure is logged, never surfaced to the analysis flow.
type Service struct {
	repo Repo
	now  func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores the analyzed paragraph preview and its result.
func (s *Service) Record(ctx context.Context, text string, result any) {
	raw, err := json.Marshal(result)
	if err != nil {
		telemetry.Error("history.encode_failed", map[string]any{"error": err.Error()})
		return
	}
	rec := Record{
		ID:     uuid.NewString(),
		Time:   s.now().UTC(),
		Text:   TruncateText(text),
		Result: raw,
	}
	if err := s.repo.Add(ctx, rec); err != nil {
		telemetry.Error("history.record_failed", map[string]any{"error": err.Error()})
	}
}

func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.repo.List(ctx)
}

func (s *Service) Clear(ctx context.Context) error {
	return s.repo.Clear(ctx)
}
