package domain

import "time"

// Run statuses recorded in the run history.
const (
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
	RunStatusCancelled = "cancelled"
)

// ExportRun is the persistent record of one export run.
type ExportRun struct {
	// ID is the unique identifier for the run.
	ID string

	// Query is the issue-selection expression the run was started with.
	Query string

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time

	// TicketCount is the number of tickets retrieved.
	TicketCount int

	// Artifacts are the names of the output files written, in index order.
	// On a cancelled or failed run this lists the artifacts already
	// committed before the abort; they remain valid, complete files.
	Artifacts []string

	// Status is one of the RunStatus constants.
	Status string

	// Error holds the failure message for failed runs.
	Error string
}

// ExportSummary is returned to the caller after a run.
type ExportSummary struct {
	RunID       string
	TicketCount int
	Artifacts   []string
	Duration    time.Duration
}
