package journals

import "context"

// Repo persists journal profiles keyed by short name.
type Repo interface {
	List(ctx context.Context) ([]Profile, error)
	// Get returns (zero, false, nil) when the journal does not exist.
	Get(ctx context.Context, name string) (Profile, bool, error)
	// Save inserts or replaces the profile.
	Save(ctx context.Context, p Profile) error
	Delete(ctx context.Context, name string) error
	// ReplaceAll swaps the whole collection, used by non-merging imports.
	ReplaceAll(ctx context.Context, profiles []Profile) error
}
