package driven

import (
	"context"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// SearchPager fetches one page of query results from the tracker.
// Implementations classify failures into the domain error taxonomy:
// auth failures wrap domain.ErrAuthInvalid, query rejections wrap
// domain.ErrBadQuery, and retryable failures wrap domain.ErrTransient
// or domain.ErrRateLimited.
type SearchPager interface {
	// FetchPage runs the query and returns the page starting at the
	// given 0-based offset, with at most pageSize tickets.
	FetchPage(ctx context.Context, query string, startAt, pageSize int) (*domain.Page, error)

	// Validate performs a cheap authenticated call to verify the
	// endpoint and credentials before a run starts.
	Validate(ctx context.Context) error
}
