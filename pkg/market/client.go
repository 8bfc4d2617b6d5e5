package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eshaffer321/secondhand-go/internal/session"
	"github.com/eshaffer321/secondhand-go/internal/transport"
	internalTypes "github.com/eshaffer321/secondhand-go/internal/types"
	"github.com/getsentry/sentry-go"
	"github.com/pkg/errors"
)

const (
	// DefaultBaseURL is the default marketplace backend origin
	DefaultBaseURL = internalTypes.DefaultBaseURL

	// DefaultTimeout is the default HTTP client timeout
	DefaultTimeout = internalTypes.DefaultTimeout

	// UserAgent is the user agent string
	UserAgent = internalTypes.UserAgent
)

// Client is the marketplace API client. Every backend call goes through it so
// that authentication and error normalization are applied uniformly.
type Client struct {
	// Service interfaces
	Products ProductService
	Auth     AuthService
	Users    UserService

	// Internal fields
	baseURL    string
	httpClient *http.Client
	transport  Transport
	options    *ClientOptions
	session    *SessionManager
	closers    []io.Closer
}

// ClientOptions configures the client
type ClientOptions struct {
	// BaseURL overrides the default backend origin
	BaseURL string

	// HTTPClient allows using a custom HTTP client
	HTTPClient *http.Client

	// Timeout bounds each request. Zero means no timeout beyond the ctx deadline.
	Timeout time.Duration

	// Token seeds the session with an existing bearer token
	Token string

	// Session shares an existing session between clients. When nil a session
	// is created from SessionDB, SessionFile, or memory, in that order.
	Session *SessionManager

	// SessionFile path for JSON session persistence
	SessionFile string

	// SessionDB path of a bbolt database for session persistence
	SessionDB string

	// Logger for debug logging
	Logger Logger

	// RetryConfig enables retries. Requests are sent exactly once when nil.
	// POST and PATCH are never retried so a listing cannot be created twice.
	RetryConfig *RetryConfig

	// RateLimiter for rate limiting
	RateLimiter RateLimiter

	// Hooks for observability
	Hooks *Hooks

	// SentryDSN enables Sentry error tracking when set
	SentryDSN string

	// SentryOptions allows custom Sentry configuration
	SentryOptions *sentry.ClientOptions
}

// Logger interface for logging
type Logger = internalTypes.Logger

// RetryConfig configures retry behavior
type RetryConfig = internalTypes.RetryConfig

// Hooks provides lifecycle hooks for requests
type Hooks = internalTypes.Hooks

// Request describes a single backend call
type Request = internalTypes.Request

// Form is a multipart/form-data payload
type Form = internalTypes.Form

// NewForm creates an empty multipart form
func NewForm() *Form {
	return internalTypes.NewForm()
}

// RateLimiter interface for rate limiting
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// Transport handles HTTP communication
type Transport interface {
	Do(ctx context.Context, req *internalTypes.Request, result interface{}) error
}

// NewClient creates a new marketplace client
func NewClient(opts *ClientOptions) (*Client, error) {
	if opts == nil {
		opts = &ClientOptions{}
	}

	if opts.SentryDSN != "" || opts.SentryOptions != nil {
		sentryOpts := sentry.ClientOptions{}
		if opts.SentryOptions != nil {
			sentryOpts = *opts.SentryOptions
		}
		if opts.SentryDSN != "" {
			sentryOpts.Dsn = opts.SentryDSN
		}
		if sentryOpts.Environment == "" {
			sentryOpts.Environment = "production"
		}

		// Sentry is optional; a bad DSN must not prevent the client from working
		if err := sentry.Init(sentryOpts); err != nil && opts.Logger != nil {
			opts.Logger.Error("Failed to initialize Sentry", "error", err)
		}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	// The caller's client may be shared, so the timeout goes on a copy
	if opts.Timeout > 0 {
		hc := *opts.HTTPClient
		hc.Timeout = opts.Timeout
		opts.HTTPClient = &hc
	}

	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		options:    opts,
	}

	sess, err := c.openSession(opts)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.session = sess

	if opts.Token != "" {
		if err := c.session.SetToken(opts.Token, c.session.Username()); err != nil {
			c.Close()
			return nil, errors.Wrap(err, "failed to store token")
		}
	}

	c.transport = transport.NewREST(&transport.Options{
		BaseURL:     opts.BaseURL,
		HTTPClient:  opts.HTTPClient,
		Tokens:      c.session,
		RetryConfig: opts.RetryConfig,
		Logger:      opts.Logger,
		Hooks:       opts.Hooks,
	})

	c.initServices()

	return c, nil
}

// NewClientWithToken creates a client with an auth token
func NewClientWithToken(token string) (*Client, error) {
	return NewClient(&ClientOptions{
		Token: token,
	})
}

// openSession picks the session backing for the client
func (c *Client) openSession(opts *ClientOptions) (*SessionManager, error) {
	if opts.Session != nil {
		return opts.Session, nil
	}

	var store SessionStore
	switch {
	case opts.SessionDB != "":
		bolt, err := session.OpenBoltStore(opts.SessionDB)
		if err != nil {
			return nil, errors.Wrap(err, "failed to open session database")
		}
		c.closers = append(c.closers, bolt)
		store = bolt
	case opts.SessionFile != "":
		store = session.NewFileStore(opts.SessionFile)
	default:
		store = session.NewMemoryStore()
	}

	sess, err := session.NewManager(store)
	if err != nil {
		// A corrupt session is treated as logged out
		if opts.Logger != nil {
			opts.Logger.Warn("Failed to load session", "error", err)
		}
	}
	return sess, nil
}

// initServices initializes all service implementations
func (c *Client) initServices() {
	c.Products = &productService{client: c}
	c.Auth = &authService{client: c}
	c.Users = &userService{client: c}
}

// Session returns the session the client reads its token from
func (c *Client) Session() *SessionManager {
	return c.session
}

// SetToken replaces the active bearer token
func (c *Client) SetToken(token, username string) error {
	return c.session.SetToken(token, username)
}

// ClearToken removes the active bearer token
func (c *Client) ClearToken() error {
	return c.session.ClearToken()
}

// Request sends req and decodes the JSON response into result
func (c *Client) Request(ctx context.Context, req *Request, result interface{}) error {
	return c.execute(ctx, req, result)
}

// Get sends a GET request to path
func (c *Client) Get(ctx context.Context, path string, result interface{}) error {
	return c.execute(ctx, &Request{Method: http.MethodGet, Path: path}, result)
}

// Post sends body to path. A *Form body is sent as multipart/form-data.
func (c *Client) Post(ctx context.Context, path string, body, result interface{}) error {
	return c.execute(ctx, &Request{Method: http.MethodPost, Path: path, Body: body}, result)
}

// Put sends body to path. A *Form body is sent as multipart/form-data.
func (c *Client) Put(ctx context.Context, path string, body, result interface{}) error {
	return c.execute(ctx, &Request{Method: http.MethodPut, Path: path, Body: body}, result)
}

// Delete sends a DELETE request to path
func (c *Client) Delete(ctx context.Context, path string, result interface{}) error {
	return c.execute(ctx, &Request{Method: http.MethodDelete, Path: path}, result)
}

// execute runs a request through rate limiting, the transport and error capture
func (c *Client) execute(ctx context.Context, req *Request, result interface{}) error {
	if c.options.RateLimiter != nil {
		if err := c.options.RateLimiter.Wait(ctx); err != nil {
			captureError(ctx, err, nil)
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	start := time.Now()
	err := c.transport.Do(ctx, req, result)
	duration := time.Since(start)

	if err != nil {
		captureError(ctx, err, map[string]interface{}{
			"method":   req.Method,
			"path":     req.Path,
			"status":   StatusCode(err),
			"duration": duration.String(),
		})
	}

	return err
}

// captureError reports err to the hub on ctx, or the global hub
func captureError(ctx context.Context, err error, details map[string]interface{}) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}

	hub.WithScope(func(scope *sentry.Scope) {
		if details != nil {
			if method, ok := details["method"].(string); ok && method != "" {
				scope.SetTag("http.method", method)
			}
			scope.SetContext("request", details)
		}
		hub.CaptureException(err)
	})
}

// Close flushes pending Sentry events and releases the session database
func (c *Client) Close() {
	sentry.Flush(2 * time.Second)

	for _, closer := range c.closers {
		if err := closer.Close(); err != nil && c.options != nil && c.options.Logger != nil {
			c.options.Logger.Warn("Failed to close session store", "error", err)
		}
	}
	c.closers = nil
}
