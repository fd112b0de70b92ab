// Package memory provides in-memory implementations of the driven
// storage ports, used in tests and as a fallback when no database is
// available.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
	"github.com/halcyon-tools/jirafetch/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is an in-memory implementation of driven.RunStore.
type RunStore struct {
	mu   sync.RWMutex
	runs []domain.ExportRun
}

// NewRunStore creates a new in-memory run store.
func NewRunStore() *RunStore {
	return &RunStore{}
}

// Save stores a run record.
func (s *RunStore) Save(_ context.Context, run domain.ExportRun) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs = append(s.runs, run)
	return nil
}

// List returns runs newest first, up to limit. A non-positive limit
// returns all runs.
func (s *RunStore) List(_ context.Context, limit int) ([]domain.ExportRun, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]domain.ExportRun, len(s.runs))
	copy(runs, s.runs)
	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].StartedAt.After(runs[j].StartedAt)
	})

	if limit > 0 && limit < len(runs) {
		runs = runs[:limit]
	}
	return runs, nil
}
