package inventory

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is returned when the backend has no record for an id.
	ErrNotFound = errors.New("record not found")
	// ErrUnsupported is returned when a resource has no path for an action.
	ErrUnsupported = errors.New("operation not supported by resource")
	// ErrUnreachable is returned by Ping when the backend cannot be reached.
	ErrUnreachable = errors.New("backend unreachable")
)

// APIError is a non-2xx or undecodable backend response, carrying the most
// specific message available.
type APIError struct {
	Status  int
	Message string
	// FromBody is set when Message came from the response body rather than
	// the status line.
	FromBody bool
}

func (e *APIError) Error() string {
	return e.Message
}

// newAPIError picks the message in order: body "message", body "error",
// the HTTP status line, then a generic fallback.
func newAPIError(status int, body any) *APIError {
	if obj, ok := body.(map[string]any); ok {
		for _, key := range []string{"message", "error"} {
			if s, ok := obj[key].(string); ok && s != "" {
				return &APIError{Status: status, Message: s, FromBody: true}
			}
		}
	}
	if text := http.StatusText(status); text != "" {
		return &APIError{Status: status, Message: fmt.Sprintf("HTTP %d: %s", status, text)}
	}
	return &APIError{Status: status, Message: "Unknown server error"}
}
