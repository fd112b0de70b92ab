package domain

// Ticket is one issue as returned by the tracker's search API: a decoded
// JSON object. Values are the usual decoded-JSON universe (nil, bool,
// float64, string, map[string]any, []any). Tickets are treated as
// immutable; pruning always returns a new document.
type Ticket map[string]any

// Page is one batch of search results.
type Page struct {
	// StartAt is the 0-based offset of the first ticket in this page
	// within the full result set.
	StartAt int

	// MaxResults is the page size the server applied to this response.
	MaxResults int

	// Total is the number of tickets matching the query across all pages.
	Total int

	// Tickets holds the tickets of this page in server order.
	Tickets []Ticket
}

// ExportBatch is one chunk of the exported ticket sequence destined for
// a single output artifact. Index determines the artifact name.
type ExportBatch struct {
	Index   int
	Name    string
	Tickets []Ticket
}
