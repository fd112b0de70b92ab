package driving

import (
	"context"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// Exporter runs the full export pipeline: paginate the tracker query,
// aggregate, prune, split into chunks and write artifacts.
type Exporter interface {
	// Run executes one export with the given configuration. Cancelling
	// ctx aborts cleanly between page fetches and between artifact
	// writes; artifacts already written remain valid, complete files.
	Run(ctx context.Context, cfg domain.ExportConfig) (*domain.ExportSummary, error)
}
