package types

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError is returned for any response outside the 2xx range. Body holds the
// raw response text; it is never decoded by the transport.
type HTTPError struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
	Method     string `json:"method,omitempty"`
	Path       string `json:"path,omitempty"`
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// Is lets callers match an HTTPError against the status sentinels
func (e *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotAuthenticated:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrServerError:
		return e.StatusCode >= 500
	}
	return false
}

// TransportError is returned when the request never produced a response
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying network error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport for every transport error
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// AsHTTPError extracts an HTTPError from an error chain
func AsHTTPError(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}
