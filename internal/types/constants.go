package types

import (
	"errors"
	"time"
)

const (
	// DefaultBaseURL is the default marketplace backend origin
	DefaultBaseURL = "http://localhost:8080"

	// DefaultTimeout is the default HTTP client timeout. Zero leaves requests
	// unbounded; callers opt in with a timeout or a ctx deadline.
	DefaultTimeout time.Duration = 0

	// UserAgent is the user agent string
	UserAgent = "secondhand-go/1.0.0"
)

// Common errors
var (
	// ErrNotAuthenticated is returned when the backend rejects the bearer token
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is returned when resource not found
	ErrNotFound = errors.New("resource not found")

	// ErrServerError is returned for server errors
	ErrServerError = errors.New("server error")

	// ErrTransport is returned when a request never completed
	ErrTransport = errors.New("transport failure")

	// ErrInvalidRequest is returned for requests rejected before they are sent
	ErrInvalidRequest = errors.New("invalid request")

	// ErrNoSession is returned when no session has been persisted
	ErrNoSession = errors.New("no session")
)
