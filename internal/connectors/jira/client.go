package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
	"github.com/halcyon-tools/jirafetch/internal/core/ports/driven"
	"github.com/halcyon-tools/jirafetch/internal/logger"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second

	// searchPath is the issue search endpoint.
	searchPath = "/rest/api/latest/search"

	// myselfPath is the cheapest authenticated endpoint, used to
	// validate credentials before a run.
	myselfPath = "/rest/api/latest/myself"
)

// Ensure Client implements the interface.
var _ driven.SearchPager = (*Client)(nil)

// Client is a Jira REST API client scoped to the search operations the
// exporter needs.
type Client struct {
	baseURL string
	fields  []string
	http    *http.Client
	limiter *RateLimiter
}

// NewClient creates a Jira client authenticating with a static bearer
// token. fields are the per-issue fields requested on every search call;
// empty means the server default set.
func NewClient(ctx context.Context, baseURL, token string, fields []string) *Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = DefaultTimeout

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		fields:  fields,
		http:    tc,
		limiter: NewRateLimiter(),
	}
}

// NewClientWithHTTPClient creates a Jira client with a custom
// http.Client. Useful for tests and custom transports.
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client, fields []string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		fields:  fields,
		http:    httpClient,
		limiter: NewRateLimiter(),
	}
}

// searchResponse is the Jira search payload. Issues are decoded as raw
// JSON objects; the exporter never needs a typed issue schema beyond
// what exclusion pruning requires.
type searchResponse struct {
	StartAt    int             `json:"startAt"`
	MaxResults int             `json:"maxResults"`
	Total      int             `json:"total"`
	Issues     []domain.Ticket `json:"issues"`
}

// FetchPage runs the JQL query and returns one page of results.
func (c *Client) FetchPage(ctx context.Context, query string, startAt, pageSize int) (*domain.Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	u, err := url.Parse(c.baseURL + searchPath)
	if err != nil {
		return nil, fmt.Errorf("parse search URL: %w", err)
	}

	q := u.Query()
	q.Set("jql", query)
	q.Set("startAt", strconv.Itoa(startAt))
	q.Set("maxResults", strconv.Itoa(pageSize))
	if len(c.fields) > 0 {
		q.Set("fields", strings.Join(c.fields, ","))
	}
	u.RawQuery = q.Encode()

	body, err := c.get(ctx, u.String())
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: decode search response: %w", domain.ErrTransient, err)
	}

	logger.Debug("jira search: startAt=%d returned %d of %d issues",
		resp.StartAt, len(resp.Issues), resp.Total)

	return &domain.Page{
		StartAt:    resp.StartAt,
		MaxResults: resp.MaxResults,
		Total:      resp.Total,
		Tickets:    resp.Issues,
	}, nil
}

// Validate checks the endpoint and credentials with a cheap
// authenticated call.
func (c *Client) Validate(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := c.get(ctx, c.baseURL+myselfPath)
	return err
}

// get performs one GET request and returns the response body, with
// failures classified into the domain error taxonomy.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, wrapTransportError(err)
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromResponse(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", domain.ErrTransient, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(resp.StatusCode, body, rawURL)
	}

	return body, nil
}
