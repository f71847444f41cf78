// ABOUTME: Failure classification for API responses
// ABOUTME: Maps HTTP status codes to the domain error taxonomy with readable messages

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/AronOmarPizarroCahuana/Siria-Admin/internal/domain"
)

// maxTextMessage bounds how much of a plain-text error body is shown to the user.
const maxTextMessage = 200

// APIError is a classified request failure. Kind is one of the domain sentinels.
type APIError struct {
	Kind    error
	Status  int // 0 when no response was received
	Message string
	Err     error
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// classify maps a status code to its failure kind
func classify(status int) error {
	switch status {
	case http.StatusBadRequest:
		return domain.ErrValidation
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return domain.ErrRemote
	}
}

// defaultMessage is used when the server body carries no message
func (r request) defaultMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "invalid data, check the fields"
	case http.StatusUnauthorized:
		if r.unauthorizedMessage != "" {
			return r.unauthorizedMessage
		}
		return "not authorized, please log in again"
	case http.StatusNotFound:
		return r.subject + " not found"
	case http.StatusConflict:
		return r.subject + " already exists or conflicts with existing data"
	default:
		return fmt.Sprintf("failed to %s (status %d)", r.action, status)
	}
}

// newStatusError builds the failure for a non-2xx response
func newStatusError(r request, status int, body []byte) *APIError {
	msg := messageFromBody(body)
	if msg == "" {
		msg = r.defaultMessage(status)
	}
	return &APIError{Kind: classify(status), Status: status, Message: msg}
}

// messageFromBody extracts a human-readable message from an error payload
func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	if gjson.Valid(trimmed) {
		parsed := gjson.Parse(trimmed)
		for _, path := range []string{"meta.message", "message", "error", "detail"} {
			if v := parsed.Get(path); v.Type == gjson.String && strings.TrimSpace(v.String()) != "" {
				return strings.TrimSpace(v.String())
			}
		}
		return ""
	}

	// Plain text bodies are only useful when short (HTML error pages are not)
	if len(trimmed) > maxTextMessage || strings.HasPrefix(trimmed, "<") {
		return ""
	}
	return trimmed
}

// transportError converts context and connection errors to user-friendly messages
func (c *Client) transportError(ctx context.Context, err error) *APIError {
	msg := fmt.Sprintf("cannot connect to backend at %s", c.baseURL)
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		msg = "request canceled"
	case errors.Is(ctx.Err(), context.DeadlineExceeded), isTimeout(err):
		msg = "request timed out"
	}
	return &APIError{Kind: domain.ErrTransport, Message: msg, Err: err}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
