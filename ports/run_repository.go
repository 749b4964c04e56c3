package ports

import (
	"context"

	"promptlab/domain/core"
	"promptlab/domain/run"
)

// RunRepository defines the interface for evaluation run persistence
type RunRepository interface {
	// Save upserts a run by ID
	Save(ctx context.Context, r run.Run) error

	// Get retrieves a run by ID; missing runs surface core.ErrRunNotFound
	Get(ctx context.Context, id core.RunID) (*run.Run, error)

	// List returns up to limit runs, newest first
	List(ctx context.Context, limit int) ([]run.Run, error)
}
