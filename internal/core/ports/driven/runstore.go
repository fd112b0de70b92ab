package driven

import (
	"context"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// RunStore persists export run records.
type RunStore interface {
	// Save stores a completed run record.
	Save(ctx context.Context, run domain.ExportRun) error

	// List returns the most recent runs, newest first, up to limit.
	// A non-positive limit returns all runs.
	List(ctx context.Context, limit int) ([]domain.ExportRun, error)
}
