// Package workerproc is the long-running consumer that drains the
// analysis queue and executes queued jobs.
package workerproc

import (
	"context"
	"errors"
	"sync"
	"time"

	"paragraph-backend/internal/analysis"
	"paragraph-backend/internal/queue"
	"paragraph-backend/internal/shared/telemetry"
)

// Source is the receive side of the job queue.
type Source interface {
	Receive(ctx context.Context, max int32, waitSeconds, visibilityTimeout int32) ([]queue.Received, error)
	Delete(ctx context.Context, receiptHandle string) error
}

// Processor runs one analysis job to completion.
type Processor interface {
	Process(ctx context.Context, analysisID string) error
}

// Options tune the polling loop.
type Options struct {
	Concurrency       int
	WaitSeconds       int32
	VisibilityTimeout int32
	JobTimeout        time.Duration
}

func DefaultOptions() Options {
	return Options{
		Concurrency:       4,
		WaitSeconds:       20,
		VisibilityTimeout: 300,
		JobTimeout:        5 * time.Minute,
	}
}

// Worker polls the queue and dispatches jobs to a bounded pool.
type Worker struct {
	source Source
	proc   Processor
	opts   Options
}

func New(source Source, proc Processor, opts Options) *Worker {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 5 * time.Minute
	}
	return &Worker{source: source, proc: proc, opts: opts}
}

// Run polls until the context is canceled. In-flight jobs finish before
// Run returns.
func (w *Worker) Run(ctx context.Context) {
	sem := make(chan struct{}, w.opts.Concurrency)
	var wg sync.WaitGroup

	for ctx.Err() == nil {
		batch, err := w.source.Receive(ctx, int32(w.opts.Concurrency), w.opts.WaitSeconds, w.opts.VisibilityTimeout)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			select {
			case <-time.After(5 * time.Second):
			case <-ctx.Done():
			}
			continue
		}

		for _, rec := range batch {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
			}
			if ctx.Err() != nil {
				break
			}
			wg.Add(1)
			go func(rec queue.Received) {
				defer wg.Done()
				defer func() { <-sem }()
				w.handle(ctx, rec)
			}(rec)
		}
	}
	wg.Wait()
}

// handle processes one message. The message is deleted on success and
// on permanent failures; transient failures leave it for redelivery
// after the visibility timeout.
func (w *Worker) handle(ctx context.Context, rec queue.Received) {
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.opts.JobTimeout)
	defer cancel()

	err := w.proc.Process(jobCtx, rec.Message.AnalysisID)
	switch {
	case err == nil:
		w.delete(jobCtx, rec)
	case errors.Is(err, analysis.ErrAnalysisNotFound):
		telemetry.Warn("worker.job_missing", map[string]any{"analysis_id": rec.Message.AnalysisID})
		w.delete(jobCtx, rec)
	default:
		telemetry.Error("worker.job_failed", map[string]any{
			"analysis_id": rec.Message.AnalysisID,
			"request_id":  rec.Message.RequestID,
			"error":       err.Error(),
		})
		// Terminal job states are persisted by Process; the message is
		// still deleted for analysis errors since a retry would hit the
		// same failed record.
		w.delete(jobCtx, rec)
	}
}

func (w *Worker) delete(ctx context.Context, rec queue.Received) {
	if err := w.source.Delete(ctx, rec.ReceiptHandle); err != nil {
		telemetry.Error("worker.delete_failed", map[string]any{
			"analysis_id": rec.Message.AnalysisID,
			"error":       err.Error(),
		})
	}
}
