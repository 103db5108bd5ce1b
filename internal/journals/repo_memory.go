package journals

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory Repo used in tests and DB-less runs.
type MemoryRepo struct {
	mu       sync.RWMutex
	profiles map[string]Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{profiles: make(map[string]Profile)}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, name string) (Profile, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[name]
	return p, ok, nil
}

func (r *MemoryRepo) Save(ctx context.Context, p Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles[p.Name] = p
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.profiles, name)
	return nil
}

func (r *MemoryRepo) ReplaceAll(ctx context.Context, profiles []Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.profiles = make(map[string]Profile, len(profiles))
	for _, p := range profiles {
		r.profiles[p.Name] = p
	}
	return nil
}
