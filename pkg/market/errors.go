package market

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	internalTypes "github.com/eshaffer321/secondhand-go/internal/types"
)

var (
	// ErrNotAuthenticated is returned when the backend rejects the request's credentials
	ErrNotAuthenticated = internalTypes.ErrNotAuthenticated

	// ErrNotFound is returned when resource not found
	ErrNotFound = internalTypes.ErrNotFound

	// ErrServerError is returned for server errors
	ErrServerError = internalTypes.ErrServerError

	// ErrTransport is returned when a request never completed
	ErrTransport = internalTypes.ErrTransport

	// ErrInvalidRequest is returned for requests rejected before they are sent
	ErrInvalidRequest = internalTypes.ErrInvalidRequest

	// ErrNoSession is returned when there is no active session
	ErrNoSession = internalTypes.ErrNoSession

	// ErrLoginFailed is returned when login succeeds without a token
	ErrLoginFailed = errors.New("login failed")
)

// APIError is returned for every response outside the 2xx range. It carries
// the status code and the raw response body.
type APIError = internalTypes.HTTPError

// TransportError is returned when a request never produced a response
type TransportError = internalTypes.TransportError

// ErrorKind classifies a failed call
type ErrorKind string

const (
	ErrorKindUnknown           ErrorKind = "Unknown"
	ErrorKindTransport         ErrorKind = "Transport"
	ErrorKindDuplicateUsername ErrorKind = "DuplicateUsername"
	ErrorKindDuplicateEmail    ErrorKind = "DuplicateEmail"
	ErrorKindValidationFailed  ErrorKind = "ValidationFailed"
	ErrorKindUnauthorized      ErrorKind = "Unauthorized"
	ErrorKindForbidden         ErrorKind = "Forbidden"
	ErrorKindNotFound          ErrorKind = "NotFound"
	ErrorKindConflict          ErrorKind = "Conflict"
	ErrorKindServerError       ErrorKind = "ServerError"
)

// discriminantFields are the body fields read for an explicit error kind, in order
var discriminantFields = []string{"code", "errorCode", "error_code", "kind"}

var kindsByCode = map[string]ErrorKind{
	"duplicateusername": ErrorKindDuplicateUsername,
	"usernametaken":     ErrorKindDuplicateUsername,
	"duplicateemail":    ErrorKindDuplicateEmail,
	"emailtaken":        ErrorKindDuplicateEmail,
	"validationfailed":  ErrorKindValidationFailed,
	"validationerror":   ErrorKindValidationFailed,
	"unauthorized":      ErrorKindUnauthorized,
	"forbidden":         ErrorKindForbidden,
	"notfound":          ErrorKindNotFound,
	"conflict":          ErrorKindConflict,
}

// KindOf classifies err. An APIError is classified by the discriminant field
// of its JSON body when present, otherwise by its status code.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ErrorKindUnknown
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ErrorKindValidationFailed
	}

	apiErr, ok := internalTypes.AsHTTPError(err)
	if !ok {
		if errors.Is(err, ErrTransport) {
			return ErrorKindTransport
		}
		return ErrorKindUnknown
	}

	if kind, ok := kindFromBody(apiErr.Body); ok {
		return kind
	}

	switch {
	case apiErr.StatusCode == http.StatusBadRequest:
		return ErrorKindValidationFailed
	case apiErr.StatusCode == http.StatusUnauthorized:
		return ErrorKindUnauthorized
	case apiErr.StatusCode == http.StatusForbidden:
		return ErrorKindForbidden
	case apiErr.StatusCode == http.StatusNotFound:
		return ErrorKindNotFound
	case apiErr.StatusCode == http.StatusConflict:
		return ErrorKindConflict
	case apiErr.StatusCode >= 500:
		return ErrorKindServerError
	}
	return ErrorKindUnknown
}

func kindFromBody(body string) (ErrorKind, bool) {
	var fields map[string]interface{}
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return "", false
	}

	for _, name := range discriminantFields {
		code, ok := fields[name].(string)
		if !ok || code == "" {
			continue
		}
		if kind, ok := kindsByCode[normalizeCode(code)]; ok {
			return kind, true
		}
	}
	return "", false
}

func normalizeCode(code string) string {
	code = strings.ToLower(code)
	code = strings.ReplaceAll(code, "_", "")
	return strings.ReplaceAll(code, "-", "")
}

// StatusCode returns the HTTP status of an APIError in err's chain, or 0
func StatusCode(err error) int {
	if apiErr, ok := internalTypes.AsHTTPError(err); ok {
		return apiErr.StatusCode
	}
	return 0
}

// ValidationError represents a request rejected before it was sent
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is matches ErrInvalidRequest
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidRequest
}

// IsAuthError checks if error is authentication related
func IsAuthError(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) ||
		errors.Is(err, ErrLoginFailed) ||
		errors.Is(err, ErrNoSession)
}

// IsNotFound checks if the backend reported a missing resource
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsRetryable checks if error is retryable
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrTransport) || errors.Is(err, ErrServerError) {
		return true
	}
	return StatusCode(err) == http.StatusTooManyRequests
}
