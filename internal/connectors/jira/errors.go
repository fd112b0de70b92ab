package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/halcyon-tools/jirafetch/internal/core/domain"
)

// APIError represents a Jira API error response.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// errorResponse is the Jira error payload.
type errorResponse struct {
	ErrorMessages []string          `json:"errorMessages"`
	Errors        map[string]string `json:"errors"`
}

// classifyStatus maps a non-200 response onto the domain error taxonomy.
// 401/403 are auth failures (fatal, no retry), 400 is a query rejection
// surfaced verbatim, 429 is rate limiting and 5xx is transient.
func classifyStatus(status int, body []byte, rawURL string) error {
	apiErr := &APIError{
		StatusCode: status,
		Message:    errorMessage(status, body),
		URL:        rawURL,
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrAuthInvalid, apiErr)
	case status == http.StatusBadRequest:
		return fmt.Errorf("%w: %w", domain.ErrBadQuery, apiErr)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", domain.ErrRateLimited, apiErr)
	case status >= 500:
		return fmt.Errorf("%w: %w", domain.ErrTransient, apiErr)
	default:
		return apiErr
	}
}

// errorMessage extracts the server's message from an error body,
// falling back to the HTTP status text.
func errorMessage(status int, body []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(body, &resp); err == nil {
		var parts []string
		parts = append(parts, resp.ErrorMessages...)
		for field, msg := range resp.Errors {
			parts = append(parts, field+": "+msg)
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return http.StatusText(status)
}

// wrapTransportError classifies request-level failures. Context
// cancellation passes through untouched so the orchestrator can tell a
// user abort from a network fault; everything else at this level is a
// network problem and retryable.
func wrapTransportError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransient, err)
}

// IsNotFound checks if the error is a 404 response.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrAuthInvalid)
}
