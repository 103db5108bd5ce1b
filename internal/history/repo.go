package history

import "context"

// Repo persists analysis history. Implementations enforce the
// MaxEntries cap on insert.
type Repo interface {
	// Add stores a record and prunes entries beyond MaxEntries.
	Add(ctx context.Context, rec Record) error
	// List returns records newest first.
	List(ctx context.Context) ([]Record, error)
	Clear(ctx context.Context) error
}
