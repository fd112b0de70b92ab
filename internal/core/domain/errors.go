package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrAuthInvalid indicates the tracker rejected the credentials.
	// Fatal: the run aborts without retrying.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrBadQuery indicates the tracker rejected the search query.
	// The server's message is surfaced verbatim to the caller.
	ErrBadQuery = errors.New("invalid query")

	// ErrTransient indicates a network or server failure that is safe
	// to retry (timeouts, connection resets, 5xx responses).
	ErrTransient = errors.New("transient transport failure")

	// ErrRateLimited indicates the API rate limit was exceeded.
	// Retryable after the server-indicated delay.
	ErrRateLimited = errors.New("rate limited")

	// ErrPageGap indicates a gap or overlap in page offsets during
	// aggregation. This signals an upstream pagination bug and is fatal.
	ErrPageGap = errors.New("non-contiguous result pages")

	// ErrChunkSize indicates an invalid tickets-per-file setting.
	// Raised before any artifact I/O.
	ErrChunkSize = errors.New("chunk size must be positive")

	// ErrSerialize indicates a pruned ticket batch could not be encoded
	// in the configured export format. Fatal for that artifact; artifacts
	// already written are not rolled back.
	ErrSerialize = errors.New("serialization failed")

	// ErrUnsupportedFormat indicates an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)
