package history

import "context"

// Store persists lint runs.
type Store interface {
	// Record stores a finished run.
	Record(ctx context.Context, run Run) error

	// Recent returns up to limit runs, newest first.
	Recent(ctx context.Context, limit int) ([]Run, error)

	// Get returns a single run by ID.
	Get(ctx context.Context, id string) (Run, error)

	// Prune deletes all but the newest keep runs and reports how many were removed.
	Prune(ctx context.Context, keep int) (int64, error)

	// Close releases the database.
	Close() error
}
