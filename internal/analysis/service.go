package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"paragraph-backend/internal/llm"
	"paragraph-backend/internal/scholar"
	"paragraph-backend/internal/shared/metrics"
	"paragraph-backend/internal/shared/telemetry"
)

// ErrEmptyText rejects analysis requests without a paragraph.
var ErrEmptyText = errors.New("text is required")

// ErrDocumentUnavailable rejects a submission referencing a document
// whose text cannot be loaded.
var ErrDocumentUnavailable = errors.New("document text unavailable")

// HistoryRecorder stores a completed analysis for later listing.
type HistoryRecorder interface {
	Record(ctx context.Context, text string, result any)
}

// Enqueuer hands an analysis id to the background worker.
type Enqueuer interface {
	EnqueueAnalysis(ctx context.Context, analysisID string) error
}

// DocumentTexts resolves the extracted text of an uploaded document so
// a submission can reference a document instead of inlining text.
type DocumentTexts interface {
	GetText(ctx context.Context, id string) (string, error)
}

// Service runs the analysis pipeline synchronously and manages async
// jobs around it.
type Service struct {
	graph   *dag[pipelineState]
	repo    Repo
	history HistoryRecorder
	queue   Enqueuer
	docs    DocumentTexts
	now     func() time.Time
}

// NewService wires the pipeline. queue may be nil; async jobs are then
// processed by a local goroutine instead of the worker process.
func NewService(
	client llm.Client,
	resolver JournalResolver,
	cfg SettingsProvider,
	gateway scholar.Gateway,
	repo Repo,
	history HistoryRecorder,
	queue Enqueuer,
	docs DocumentTexts,
) (*Service, error) {
	graph, err := buildGraph(&engine{
		client:   client,
		journals: resolver,
		settings: cfg,
		scholar:  gateway,
	})
	if err != nil {
		return nil, err
	}
	return &Service{
		graph:   graph,
		repo:    repo,
		history: history,
		queue:   queue,
		docs:    docs,
		now:     time.Now,
	}, nil
}

// Analyze runs the full pipeline and returns the aggregate result.
// Node failures degrade to typed empty slots; only a blank paragraph
// is an error.
func (s *Service) Analyze(ctx context.Context, text, journalName string) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}

	metrics.IncAnalysisStarted()
	start := s.now()

	state := &pipelineState{
		text:        text,
		journalName: strings.TrimSpace(journalName),
		result:      emptyResult(),
	}
	s.graph.run(ctx, state)

	elapsed := s.now().Sub(start)
	metrics.ObserveAnalysisDurationMs(float64(elapsed.Milliseconds()))
	metrics.IncAnalysisCompleted()
	telemetry.Info("analysis.completed", map[string]any{
		"journal_name": state.journalName,
		"duration_ms":  elapsed.Milliseconds(),
		"text_length":  len(text),
	})

	if s.history != nil {
		s.history.Record(ctx, text, state.result)
	}
	return state.result, nil
}

// Submit creates an async analysis job and dispatches it to the worker.
// Text may come inline or from an uploaded document's extracted text.
func (s *Service) Submit(ctx context.Context, text, journalName string, documentID *string) (Analysis, error) {
	if strings.TrimSpace(text) == "" && documentID != nil && s.docs != nil {
		docText, err := s.docs.GetText(ctx, *documentID)
		if err != nil {
			return Analysis{}, fmt.Errorf("%w: %s", ErrDocumentUnavailable, *documentID)
		}
		text = docText
	}
	if strings.TrimSpace(text) == "" {
		return Analysis{}, ErrEmptyText
	}

	now := s.now().UTC()
	job := Analysis{
		ID:          uuid.NewString(),
		Text:        text,
		JournalName: strings.TrimSpace(journalName),
		DocumentID:  documentID,
		Status:      StatusQueued,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return Analysis{}, fmt.Errorf("create analysis: %w", err)
	}

	if s.queue != nil {
		if err := s.queue.EnqueueAnalysis(ctx, job.ID); err != nil {
			s.markFailed(ctx, job.ID, "enqueue_failed", err.Error())
			return Analysis{}, fmt.Errorf("enqueue analysis: %w", err)
		}
	} else {
		go func() {
			bg, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := s.Process(bg, job.ID); err != nil {
				telemetry.Error("analysis.process_failed", map[string]any{
					"analysis_id": job.ID,
					"error":       err.Error(),
				})
			}
		}()
	}
	return job, nil
}

// Process executes a queued job. Called by the worker process, or by a
// local goroutine when no queue is configured.
func (s *Service) Process(ctx context.Context, id string) error {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if job.Status == StatusCompleted || job.Status == StatusProcessing {
		telemetry.Info("analysis.process_skipped", map[string]any{
			"analysis_id": id,
			"status":      string(job.Status),
		})
		return nil
	}

	started := s.now().UTC()
	job.Status = StatusProcessing
	job.StartedAt = &started
	job.UpdatedAt = started
	if err := s.repo.Update(ctx, job); err != nil {
		return err
	}

	result, err := s.Analyze(ctx, job.Text, job.JournalName)
	if err != nil {
		metrics.IncAnalysisFailed()
		s.markFailed(ctx, id, "analysis_failed", err.Error())
		return err
	}

	completed := s.now().UTC()
	job.Status = StatusCompleted
	job.Result = &result
	job.CompletedAt = &completed
	job.UpdatedAt = completed
	return s.repo.Update(ctx, job)
}

func (s *Service) Get(ctx context.Context, id string) (Analysis, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, limit int) ([]Analysis, error) {
	return s.repo.List(ctx, limit)
}

func (s *Service) markFailed(ctx context.Context, id, code, message string) {
	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return
	}
	now := s.now().UTC()
	job.Status = StatusFailed
	job.ErrorCode = code
	job.ErrorMessage = message
	job.CompletedAt = &now
	job.UpdatedAt = now
	if err := s.repo.Update(ctx, job); err != nil {
		telemetry.Error("analysis.mark_failed_error", map[string]any{
			"analysis_id": id,
			"error":       err.Error(),
		})
	}
}
