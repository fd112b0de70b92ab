package services

import (
	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// Filter applies per-field exclusion rules to aggregated tickets. Each
// table entry is scoped to the subtree rooted at its top-level field:
// the entry for "comment" carries paths like "comments.author.self",
// where "comments" names the array nested inside the comment field.
// Entries target disjoint subtrees, so their order does not affect the
// result.
type Filter struct {
	pruner *Pruner
	table  domain.FieldExclusions
}

// NewFilter creates a filter for the given per-field exclusion table.
func NewFilter(pruner *Pruner, table domain.FieldExclusions) *Filter {
	return &Filter{
		pruner: pruner,
		table:  table,
	}
}

// Apply returns a copy of ticket with every table entry whose field is
// present pruned within that field's subtree. Entries for absent fields
// are no-ops.
func (f *Filter) Apply(ticket domain.Ticket) domain.Ticket {
	if len(f.table) == 0 || ticket == nil {
		return ticket
	}

	filtered := make(domain.Ticket, len(ticket))
	for k, v := range ticket {
		filtered[k] = v
	}

	for field, paths := range f.table {
		subtree, ok := filtered[field]
		if !ok {
			continue
		}
		filtered[field] = f.pruner.PruneValue(subtree, paths)
	}

	return filtered
}
