package domain

// Export formats supported by the file splitter.
const (
	// FormatJSON writes each artifact as an indented JSON array.
	FormatJSON = "json"

	// FormatNDJSON writes each artifact as newline-delimited JSON,
	// one ticket per line.
	FormatNDJSON = "ndjson"
)

// DefaultPageSize is the page size requested from the tracker when the
// configuration does not set one.
const DefaultPageSize = 50

// ExportConfig is the immutable configuration for one export run. It is
// assembled by the config adapter and threaded through the pipeline by
// parameter injection; no component reads process-wide state.
type ExportConfig struct {
	// Query is the issue-selection expression (JQL) sent to the tracker.
	Query string

	// Fields are the top-level ticket fields requested per issue.
	// Empty means the tracker's default field set.
	Fields []string

	// MaxResults bounds the total number of tickets fetched across all
	// pages. Zero or negative means no bound.
	MaxResults int

	// PageSize is the number of tickets requested per search call.
	PageSize int

	// Format is the export serialization: FormatJSON or FormatNDJSON.
	Format string

	// BaseName is the artifact name prefix; artifact i is named
	// "<BaseName>-<i>.<Format extension>".
	BaseName string

	// TicketsPerFile caps the number of tickets per artifact.
	TicketsPerFile int

	// GlobalExclusions is applied to every ticket's top level before
	// any per-field exclusion runs.
	GlobalExclusions ExclusionSpec

	// FieldExclusions holds per-field exclusion rules, each scoped to
	// the subtree rooted at its top-level field.
	FieldExclusions FieldExclusions
}

// Validate checks the settings that must be rejected before any network
// or file I/O happens.
func (c ExportConfig) Validate() error {
	if c.Query == "" {
		return ErrInvalidInput
	}
	if c.TicketsPerFile <= 0 {
		return ErrChunkSize
	}
	switch c.Format {
	case FormatJSON, FormatNDJSON:
	default:
		return ErrUnsupportedFormat
	}
	return nil
}
