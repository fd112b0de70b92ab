package services

import (
	"fmt"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
	"github.com/halcyon-tools/jirafetch/internal/logger"
)

// Aggregator collects paginated query results into a single ordered
// ticket sequence, verifying offset contiguity and applying the global
// exclusion set to each ticket. Pagination metadata is not retained.
type Aggregator struct {
	pruner *Pruner
	global domain.ExclusionSpec
}

// NewAggregator creates an aggregator that strips the given global
// exclusions from every ticket.
func NewAggregator(pruner *Pruner, global domain.ExclusionSpec) *Aggregator {
	return &Aggregator{
		pruner: pruner,
		global: global,
	}
}

// Aggregate concatenates the ticket sequences of all pages in retrieval
// order. A page whose StartAt does not equal the number of tickets
// aggregated so far signals an upstream pagination bug and fails with
// domain.ErrPageGap.
func (a *Aggregator) Aggregate(pages []domain.Page) ([]domain.Ticket, error) {
	var tickets []domain.Ticket

	for i, page := range pages {
		if page.StartAt != len(tickets) {
			return nil, fmt.Errorf("%w: page %d starts at offset %d, expected %d",
				domain.ErrPageGap, i, page.StartAt, len(tickets))
		}
		for _, ticket := range page.Tickets {
			tickets = append(tickets, a.pruner.Prune(ticket, a.global))
		}
	}

	logger.Debug("aggregated %d tickets from %d pages", len(tickets), len(pages))
	return tickets, nil
}
