package shared

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Authentication errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrNotVerified      = fmt.Errorf("email not verified")
	ErrTimeout          = fmt.Errorf("operation timed out")

	// Transport and API errors
	ErrNetwork            = fmt.Errorf("network error")
	ErrServer             = fmt.Errorf("server error")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")
	ErrVideoNotFound      = fmt.Errorf("video not found")
	ErrSessionNotFound    = fmt.Errorf("session not found")

	// Pagination errors
	ErrPageMismatch   = fmt.Errorf("unexpected page in response")
	ErrStaleResponse  = fmt.Errorf("response superseded by a newer request")
	ErrNothingToRetry = fmt.Errorf("nothing to retry")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)

// APIError is a non-2xx response from the backend.
//
// It unwraps to [ErrServer], and additionally matches [ErrNotAuthenticated] for 401 and [ErrForbidden] for 403.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error (status %d)", e.Status)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() []error {
	switch e.Status {
	case http.StatusUnauthorized:
		return []error{ErrServer, ErrNotAuthenticated}
	case http.StatusForbidden:
		return []error{ErrServer, ErrForbidden}
	default:
		return []error{ErrServer}
	}
}

// NotVerified reports a 403 login rejection for an account whose email is unconfirmed.
func (e *APIError) NotVerified() bool {
	return e.Status == http.StatusForbidden && strings.Contains(strings.ToLower(e.Message), "verified")
}

// ErrorMessage returns the message to show a user for err.
//
// Server messages are shown as-is, anything else falls back to the surface-specific text.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrNetwork) {
		return fallback + " Check your connection."
	}
	return fallback
}
