package analysis

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used in tests and DB-less runs.
type MemoryRepo struct {
	mu   sync.RWMutex
	jobs map[string]Analysis
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{jobs: make(map[string]Analysis)}
}

func (r *MemoryRepo) Create(ctx context.Context, a Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs[a.ID] = a
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.jobs[id]
	if !ok {
		return Analysis{}, ErrAnalysisNotFound
	}
	return a, nil
}

func (r *MemoryRepo) Update(ctx context.Context, a Analysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.jobs[a.ID]; !ok {
		return ErrAnalysisNotFound
	}
	r.jobs[a.ID] = a
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, limit int) ([]Analysis, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Analysis, 0, len(r.jobs))
	for _, a := range r.jobs {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
