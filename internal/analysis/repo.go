package analysis

import (
	"context"
	"errors"
)

// ErrAnalysisNotFound is returned when an analysis id is unknown.
var ErrAnalysisNotFound = errors.New("analysis not found")

// Repo persists async analysis jobs.
type Repo interface {
	Create(ctx context.Context, a Analysis) error
	Get(ctx context.Context, id string) (Analysis, error)
	Update(ctx context.Context, a Analysis) error
	// List returns recent analyses, newest first, up to limit.
	List(ctx context.Context, limit int) ([]Analysis, error)
}
