package settings

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo used in tests and DB-less runs.
type MemoryRepo struct {
	mu    sync.RWMutex
	saved bool
	s     Settings
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (r *MemoryRepo) Get(ctx context.Context) (Settings, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s, r.saved, nil
}

func (r *MemoryRepo) Save(ctx context.Context, s Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.s = s
	r.saved = true
	return nil
}
