// Package storage provides the non-postgres run stores: a mutex-guarded
// in-memory map used when no DATABASE_URL is configured, and a JSON
// file store for CLI exports.
package storage

import (
	"context"
	"sync"

	"promptlab/domain/core"
	"promptlab/domain/run"
)

// MemoryRunRepository implements RunRepository with in-memory storage
type MemoryRunRepository struct {
	mu    sync.RWMutex
	runs  map[core.RunID]run.Run
	order []core.RunID // insertion order, oldest first
}

// NewMemoryRunRepository creates an empty in-memory run store
func NewMemoryRunRepository() *MemoryRunRepository {
	return &MemoryRunRepository{
		runs: make(map[core.RunID]run.Run),
	}
}

// Save stores or replaces a run by ID
func (s *MemoryRunRepository) Save(ctx context.Context, r run.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.runs[r.ID]; !exists {
		s.order = append(s.order, r.ID)
	}
	s.runs[r.ID] = r
	return nil
}

// Get returns the run with the given ID
func (s *MemoryRunRepository) Get(ctx context.Context, id core.RunID) (*run.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, exists := s.runs[id]
	if !exists {
		return nil, core.NewRunNotFoundError(string(id))
	}
	return &r, nil
}

// List returns runs newest first. A non-positive limit returns all.
func (s *MemoryRunRepository) List(ctx context.Context, limit int) ([]run.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]run.Run, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		if limit > 0 && len(results) >= limit {
			break
		}
		results = append(results, s.runs[s.order[i]])
	}
	return results, nil
}
