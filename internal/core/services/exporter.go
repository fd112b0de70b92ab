package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
	"github.com/halcyon-tools/jirafetch/internal/core/ports/driven"
	"github.com/halcyon-tools/jirafetch/internal/core/ports/driving"
	"github.com/halcyon-tools/jirafetch/internal/logger"
)

const (
	// MaxAttempts caps the total fetch attempts per page, the first
	// call included. Only transient failures are reattempted.
	MaxAttempts = 3

	// RetryDelay is the initial delay between retries; it doubles on
	// each attempt.
	RetryDelay = time.Second
)

// Ensure Exporter implements the interface.
var _ driving.Exporter = (*Exporter)(nil)

// Exporter drives the export pipeline: sequential pagination against the
// tracker, aggregation, pruning, splitting and artifact writes. Each run
// is recorded in the run store.
type Exporter struct {
	pager  driven.SearchPager
	writer driven.ArtifactWriter
	runs   driven.RunStore
	pruner *Pruner

	maxAttempts int
	retryDelay  time.Duration
}

// Option configures the exporter.
type Option func(*Exporter)

// WithMaxAttempts caps the total fetch attempts per page.
func WithMaxAttempts(n int) Option {
	return func(e *Exporter) {
		if n > 0 {
			e.maxAttempts = n
		}
	}
}

// WithRetryDelay sets the initial backoff delay.
func WithRetryDelay(d time.Duration) Option {
	return func(e *Exporter) {
		if d > 0 {
			e.retryDelay = d
		}
	}
}

// NewExporter creates a new exporter.
func NewExporter(pager driven.SearchPager, writer driven.ArtifactWriter, runs driven.RunStore, opts ...Option) *Exporter {
	e := &Exporter{
		pager:       pager,
		writer:      writer,
		runs:        runs,
		pruner:      NewPruner(),
		maxAttempts: MaxAttempts,
		retryDelay:  RetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes one export. The returned summary is non-nil whenever a
// run record was created, so on a cancelled or failed run it reports the
// artifacts already committed; those remain valid, complete files.
func (e *Exporter) Run(ctx context.Context, cfg domain.ExportConfig) (*domain.ExportSummary, error) {
	// Reject bad settings before any network or file I/O.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid export config: %w", err)
	}

	run := domain.ExportRun{
		ID:        uuid.New().String(),
		Query:     cfg.Query,
		StartedAt: time.Now(),
	}

	logger.Info("starting export run %s", run.ID)
	err := e.export(ctx, cfg, &run)
	run.FinishedAt = time.Now()

	switch {
	case err == nil:
		run.Status = domain.RunStatusSucceeded
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		run.Status = domain.RunStatusCancelled
		run.Error = err.Error()
	default:
		run.Status = domain.RunStatusFailed
		run.Error = err.Error()
	}

	// Record the run even when it failed or was cancelled; the history
	// must list artifacts that were already committed.
	if saveErr := e.runs.Save(context.WithoutCancel(ctx), run); saveErr != nil {
		logger.Warn("failed to record export run %s: %v", run.ID, saveErr)
	}

	summary := &domain.ExportSummary{
		RunID:       run.ID,
		TicketCount: run.TicketCount,
		Artifacts:   run.Artifacts,
		Duration:    run.FinishedAt.Sub(run.StartedAt),
	}
	if err != nil {
		return summary, err
	}
	return summary, nil
}

// export runs the pipeline stages in sequence, filling run with progress
// as artifacts are committed.
func (e *Exporter) export(ctx context.Context, cfg domain.ExportConfig, run *domain.ExportRun) error {
	// 1. Verify endpoint and credentials with a cheap call.
	if err := e.pager.Validate(ctx); err != nil {
		return fmt.Errorf("validate tracker connection: %w", err)
	}

	// 2. Paginate the query.
	pages, err := e.fetchAll(ctx, cfg)
	if err != nil {
		return fmt.Errorf("fetch pages: %w", err)
	}

	// 3. Aggregate with global exclusions.
	aggregator := NewAggregator(e.pruner, cfg.GlobalExclusions)
	tickets, err := aggregator.Aggregate(pages)
	if err != nil {
		return fmt.Errorf("aggregate pages: %w", err)
	}
	run.TicketCount = len(tickets)

	// 4. Per-field exclusions, one ticket at a time, order preserved.
	filter := NewFilter(e.pruner, cfg.FieldExclusions)
	for i := range tickets {
		tickets[i] = filter.Apply(tickets[i])
	}

	// 5. Split into artifacts.
	splitter := NewSplitter(cfg.Format, cfg.BaseName)
	batches, err := splitter.Split(tickets, cfg.TicketsPerFile)
	if err != nil {
		return fmt.Errorf("split tickets: %w", err)
	}

	// 6. Serialize and write each artifact, checking for cancellation
	// between writes.
	for _, batch := range batches {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := splitter.Encode(batch)
		if err != nil {
			return err
		}
		if err := e.writer.Write(batch.Name, data); err != nil {
			return fmt.Errorf("write artifact %s: %w", batch.Name, err)
		}

		run.Artifacts = append(run.Artifacts, batch.Name)
		logger.Debug("wrote artifact %s (%d tickets)", batch.Name, len(batch.Tickets))
	}

	return nil
}

// fetchAll pages through the query until the tracker reports no further
// results or the configured maximum is reached, whichever comes first.
// The final page is truncated to respect the maximum.
func (e *Exporter) fetchAll(ctx context.Context, cfg domain.ExportConfig) ([]domain.Page, error) {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	var pages []domain.Page
	fetched := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		size := pageSize
		if cfg.MaxResults > 0 {
			remaining := cfg.MaxResults - fetched
			if remaining <= 0 {
				break
			}
			if remaining < size {
				size = remaining
			}
		}

		page, err := e.fetchPage(ctx, cfg.Query, fetched, size)
		if err != nil {
			return nil, err
		}

		if len(page.Tickets) > size {
			page.Tickets = page.Tickets[:size]
		}
		if len(page.Tickets) == 0 {
			break
		}

		pages = append(pages, *page)
		fetched += len(page.Tickets)
		logger.Debug("fetched page at offset %d: %d tickets of %d total",
			page.StartAt, len(page.Tickets), page.Total)

		if fetched >= page.Total {
			break
		}
	}

	return pages, nil
}

// fetchPage fetches one page, retrying transient failures with bounded
// exponential backoff. Auth and query-syntax failures are surfaced
// immediately without a retry attempt.
func (e *Exporter) fetchPage(ctx context.Context, query string, startAt, pageSize int) (*domain.Page, error) {
	delay := e.retryDelay

	for attempt := 1; ; attempt++ {
		page, err := e.pager.FetchPage(ctx, query, startAt, pageSize)
		if err == nil {
			return page, nil
		}

		if !isRetryable(err) || attempt >= e.maxAttempts {
			return nil, err
		}

		logger.Warn("retrying page at offset %d after error (attempt %d/%d): %v",
			startAt, attempt, e.maxAttempts, err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}

// isRetryable reports whether a fetch error is worth retrying.
func isRetryable(err error) bool {
	return errors.Is(err, domain.ErrTransient) || errors.Is(err, domain.ErrRateLimited)
}
