package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-tools/jirafetch/internal/adapters/driven/storage/memory"
	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// --- Fakes for exporter testing ---

// fakePager serves pages out of a fixed result set and can be scripted
// to fail the first N fetch calls, over-deliver past the requested page
// size, or invoke a hook after each served page.
type fakePager struct {
	tickets     []domain.Ticket
	validateErr error

	failFirst   int    // fail this many FetchPage calls
	failWith    error  // error returned while failing
	overDeliver int    // extra tickets returned beyond pageSize
	onFetch     func() // called after each successfully served page

	mu            sync.Mutex
	fetchCalls    int
	validateCalls int
	offsets       []int
}

func (p *fakePager) FetchPage(_ context.Context, _ string, startAt, pageSize int) (*domain.Page, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.fetchCalls++
	if p.failFirst > 0 {
		p.failFirst--
		return nil, p.failWith
	}

	p.offsets = append(p.offsets, startAt)

	end := startAt + pageSize + p.overDeliver
	if end > len(p.tickets) {
		end = len(p.tickets)
	}
	var tickets []domain.Ticket
	if startAt < len(p.tickets) {
		tickets = p.tickets[startAt:end]
	}

	if p.onFetch != nil {
		p.onFetch()
	}

	return &domain.Page{
		StartAt:    startAt,
		MaxResults: pageSize,
		Total:      len(p.tickets),
		Tickets:    tickets,
	}, nil
}

func (p *fakePager) Validate(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.validateCalls++
	return p.validateErr
}

// fakeWriter records written artifacts and can invoke a hook after each
// write, used to trigger cancellation mid-run.
type fakeWriter struct {
	mu       sync.Mutex
	written  map[string][]byte
	order    []string
	writeErr error
	onWrite  func(name string)
}

func newFakeWriter() *fakeWriter {
	return &fakeWriter{written: make(map[string][]byte)}
}

func (w *fakeWriter) Write(name string, data []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.writeErr != nil {
		return w.writeErr
	}
	w.written[name] = data
	w.order = append(w.order, name)
	if w.onWrite != nil {
		w.onWrite(name)
	}
	return nil
}

func exportConfig() domain.ExportConfig {
	return domain.ExportConfig{
		Query:          "project = DEMO",
		MaxResults:     100,
		PageSize:       2,
		Format:         domain.FormatJSON,
		BaseName:       "demo",
		TicketsPerFile: 2,
	}
}

func demoTickets(n int) []domain.Ticket {
	tickets := make([]domain.Ticket, n)
	for i := range tickets {
		tickets[i] = domain.Ticket{
			"key":  fmt.Sprintf("DEMO-%d", i+1),
			"self": fmt.Sprintf("https://jira/issue/DEMO-%d", i+1),
		}
	}
	return tickets
}

// --- Tests ---

func TestExporter_Run_EndToEnd(t *testing.T) {
	pager := &fakePager{tickets: demoTickets(5)}
	writer := newFakeWriter()
	runs := memory.NewRunStore()
	exporter := NewExporter(pager, writer, runs)

	cfg := exportConfig()
	cfg.GlobalExclusions = domain.ExclusionSpec{"self"}

	summary, err := exporter.Run(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, summary)

	// maxResults=100, ticketsPerFile=2, total of 5 tickets: exactly
	// three artifacts sized [2,2,1].
	assert.Equal(t, 5, summary.TicketCount)
	assert.Equal(t, []string{"demo-0.json", "demo-1.json", "demo-2.json"}, summary.Artifacts)

	var sizes []int
	var keys []string
	for _, name := range summary.Artifacts {
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(writer.written[name], &decoded))
		sizes = append(sizes, len(decoded))
		for _, ticket := range decoded {
			assert.NotContains(t, ticket, "self")
			keys = append(keys, ticket["key"].(string))
		}
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)

	// Concatenated artifacts reconstruct the result set in order.
	assert.Equal(t, []string{"DEMO-1", "DEMO-2", "DEMO-3", "DEMO-4", "DEMO-5"}, keys)

	// Pagination was contiguous.
	assert.Equal(t, []int{0, 2, 4}, pager.offsets)

	history, err := runs.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RunStatusSucceeded, history[0].Status)
	assert.Equal(t, summary.RunID, history[0].ID)
	assert.Equal(t, 5, history[0].TicketCount)
}

func TestExporter_Run_MaxResultsTruncatesFinalPage(t *testing.T) {
	pager := &fakePager{tickets: demoTickets(10)}
	writer := newFakeWriter()
	exporter := NewExporter(pager, writer, memory.NewRunStore())

	cfg := exportConfig()
	cfg.MaxResults = 3

	summary, err := exporter.Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TicketCount)
	// Second request only asks for the remaining budget.
	assert.Equal(t, []int{0, 2}, pager.offsets)
	assert.Equal(t, []string{"demo-0.json", "demo-1.json"}, summary.Artifacts)
}

func TestExporter_Run_AuthErrorNoRetry(t *testing.T) {
	pager := &fakePager{
		tickets:   demoTickets(5),
		failFirst: 100,
		failWith:  fmt.Errorf("%w: 401 from tracker", domain.ErrAuthInvalid),
	}
	writer := newFakeWriter()
	runs := memory.NewRunStore()
	exporter := NewExporter(pager, writer, runs, WithRetryDelay(time.Millisecond))

	summary, err := exporter.Run(context.Background(), exportConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)

	// Exactly one attempt: auth failures are fatal, never retried.
	assert.Equal(t, 1, pager.fetchCalls)
	assert.Empty(t, writer.written)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Artifacts)

	history, _ := runs.List(context.Background(), 0)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RunStatusFailed, history[0].Status)
}

func TestExporter_Run_QuerySyntaxErrorNoRetry(t *testing.T) {
	pager := &fakePager{
		failFirst: 100,
		failWith:  fmt.Errorf("%w: field 'proj' does not exist", domain.ErrBadQuery),
	}
	exporter := NewExporter(pager, newFakeWriter(), memory.NewRunStore(), WithRetryDelay(time.Millisecond))

	_, err := exporter.Run(context.Background(), exportConfig())
	assert.ErrorIs(t, err, domain.ErrBadQuery)
	assert.Equal(t, 1, pager.fetchCalls)
}

func TestExporter_Run_TransientErrorRetried(t *testing.T) {
	pager := &fakePager{
		tickets:   demoTickets(3),
		failFirst: 2,
		failWith:  fmt.Errorf("%w: connection reset", domain.ErrTransient),
	}
	writer := newFakeWriter()
	exporter := NewExporter(pager, writer, memory.NewRunStore(), WithRetryDelay(time.Millisecond))

	summary, err := exporter.Run(context.Background(), exportConfig())
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TicketCount)

	// 2 failures + 2 successful pages.
	assert.Equal(t, 4, pager.fetchCalls)
}

func TestExporter_Run_AttemptCapExhausted(t *testing.T) {
	pager := &fakePager{
		failFirst: 100,
		failWith:  fmt.Errorf("%w: gateway timeout", domain.ErrTransient),
	}
	exporter := NewExporter(pager, newFakeWriter(), memory.NewRunStore(),
		WithMaxAttempts(3), WithRetryDelay(time.Millisecond))

	_, err := exporter.Run(context.Background(), exportConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTransient)

	// The cap counts the first call, so 3 attempts means 2 retries.
	assert.Equal(t, 3, pager.fetchCalls)
}

func TestExporter_Run_InvalidChunkSize(t *testing.T) {
	pager := &fakePager{tickets: demoTickets(3)}
	exporter := NewExporter(pager, newFakeWriter(), memory.NewRunStore())

	cfg := exportConfig()
	cfg.TicketsPerFile = 0

	summary, err := exporter.Run(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrChunkSize)
	assert.Nil(t, summary)

	// Rejected before any I/O.
	assert.Equal(t, 0, pager.fetchCalls)
	assert.Equal(t, 0, pager.validateCalls)
}

func TestExporter_Run_UnsupportedFormat(t *testing.T) {
	exporter := NewExporter(&fakePager{}, newFakeWriter(), memory.NewRunStore())

	cfg := exportConfig()
	cfg.Format = "csv"

	_, err := exporter.Run(context.Background(), cfg)
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestExporter_Run_ValidateFailureAborts(t *testing.T) {
	pager := &fakePager{
		tickets:     demoTickets(3),
		validateErr: fmt.Errorf("%w: token rejected", domain.ErrAuthInvalid),
	}
	exporter := NewExporter(pager, newFakeWriter(), memory.NewRunStore())

	_, err := exporter.Run(context.Background(), exportConfig())
	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Equal(t, 0, pager.fetchCalls)
}

func TestExporter_Run_CancelledBetweenWrites(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	pager := &fakePager{tickets: demoTickets(6)}
	writer := newFakeWriter()
	writer.onWrite = func(string) { cancel() } // cancel after the first artifact
	runs := memory.NewRunStore()
	exporter := NewExporter(pager, writer, runs)

	summary, err := exporter.Run(ctx, exportConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// The artifact written before cancellation remains committed and is
	// reported in both the summary and the run history.
	require.NotNil(t, summary)
	assert.Equal(t, []string{"demo-0.json"}, summary.Artifacts)

	history, _ := runs.List(context.Background(), 0)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RunStatusCancelled, history[0].Status)
	assert.Equal(t, []string{"demo-0.json"}, history[0].Artifacts)
}

func TestExporter_Run_CancelledBetweenPages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	pager := &fakePager{tickets: demoTickets(6)}
	pager.onFetch = cancel // cancel after the first page is served
	writer := newFakeWriter()
	runs := memory.NewRunStore()
	exporter := NewExporter(pager, writer, runs)

	summary, err := exporter.Run(ctx, exportConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	// The second page is never requested and nothing is written.
	assert.Equal(t, 1, pager.fetchCalls)
	assert.Empty(t, writer.written)
	require.NotNil(t, summary)
	assert.Empty(t, summary.Artifacts)

	history, _ := runs.List(context.Background(), 0)
	require.Len(t, history, 1)
	assert.Equal(t, domain.RunStatusCancelled, history[0].Status)
	assert.Empty(t, history[0].Artifacts)
}

func TestExporter_Run_OverDeliveringPageTruncated(t *testing.T) {
	// The tracker returns one ticket more than asked for on every page.
	pager := &fakePager{tickets: demoTickets(10), overDeliver: 1}
	writer := newFakeWriter()
	exporter := NewExporter(pager, writer, memory.NewRunStore())

	cfg := exportConfig()
	cfg.MaxResults = 3

	summary, err := exporter.Run(context.Background(), cfg)
	require.NoError(t, err)

	// The surplus is dropped, the bound holds and offsets stay
	// contiguous despite the over-delivery.
	assert.Equal(t, 3, summary.TicketCount)
	assert.Equal(t, []int{0, 2}, pager.offsets)

	var keys []string
	for _, name := range summary.Artifacts {
		var decoded []map[string]any
		require.NoError(t, json.Unmarshal(writer.written[name], &decoded))
		for _, ticket := range decoded {
			keys = append(keys, ticket["key"].(string))
		}
	}
	assert.Equal(t, []string{"DEMO-1", "DEMO-2", "DEMO-3"}, keys)
}

func TestExporter_Run_WriteFailureReportsArtifact(t *testing.T) {
	pager := &fakePager{tickets: demoTickets(2)}
	writer := newFakeWriter()
	writer.writeErr = errors.New("disk full")
	exporter := NewExporter(pager, writer, memory.NewRunStore())

	_, err := exporter.Run(context.Background(), exportConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "demo-0.json")
}

func TestExporter_Run_EmptyResultSet(t *testing.T) {
	pager := &fakePager{tickets: nil}
	writer := newFakeWriter()
	exporter := NewExporter(pager, writer, memory.NewRunStore())

	summary, err := exporter.Run(context.Background(), exportConfig())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TicketCount)
	assert.Empty(t, summary.Artifacts)
	assert.Empty(t, writer.written)
}
