package settings

import "context"

// Repo persists the single settings record.
type Repo interface {
	// Get returns the saved settings, or (zero, false, nil) when none exist yet.
	Get(ctx context.Context) (Settings, bool, error)
	Save(ctx context.Context, s Settings) error
}
