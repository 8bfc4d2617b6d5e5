package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eshaffer321/secondhand-go/internal/types"
	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	authHeaderKey   = "Authorization"
	contentTypeKey  = "Content-Type"
	requestIDKey    = "X-Request-ID"
	jsonContentType = "application/json"
)

// TokenSource supplies the bearer token for each request
type TokenSource interface {
	Token() string
}

// REST performs backend calls. Every request reads the token from its
// TokenSource, so a login or logout is visible to the very next call.
type REST struct {
	baseURL     string
	httpClient  *http.Client
	retryClient *retryablehttp.Client
	headers     map[string]string
	tokens      TokenSource
	logger      types.Logger
	hooks       *types.Hooks
}

// Options for the REST transport
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	Headers     map[string]string
	Tokens      TokenSource
	RetryConfig *types.RetryConfig
	Logger      types.Logger
	Hooks       *types.Hooks
}

// NewREST creates a new REST transport
func NewREST(opts *Options) *REST {
	if opts == nil {
		opts = &Options{}
	}

	if opts.BaseURL == "" {
		opts.BaseURL = types.DefaultBaseURL
	}

	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}

	// Requests are fire-once unless retries are explicitly configured
	var retryClient *retryablehttp.Client
	if opts.RetryConfig != nil {
		retryClient = retryablehttp.NewClient()
		retryClient.HTTPClient = opts.HTTPClient
		retryClient.RetryMax = opts.RetryConfig.MaxRetries
		retryClient.RetryWaitMin = opts.RetryConfig.RetryWait
		retryClient.RetryWaitMax = opts.RetryConfig.MaxWait
		retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

		if opts.Logger != nil {
			retryClient.Logger = &retryLogger{logger: opts.Logger}
		} else {
			retryClient.Logger = nil
		}
	}

	headers := map[string]string{
		"Accept":     jsonContentType,
		"User-Agent": types.UserAgent,
	}
	for k, v := range opts.Headers {
		headers[k] = v
	}

	return &REST{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		httpClient:  opts.HTTPClient,
		retryClient: retryClient,
		headers:     headers,
		tokens:      opts.Tokens,
		logger:      opts.Logger,
		hooks:       opts.Hooks,
	}
}

// BaseURL returns the backend origin requests are sent to
func (t *REST) BaseURL() string {
	return t.baseURL
}

// Do executes req and decodes a successful JSON response into result. A nil
// result discards the body.
func (t *REST) Do(ctx context.Context, req *types.Request, result interface{}) error {
	if req == nil {
		return errors.Wrap(types.ErrInvalidRequest, "nil request")
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	url := t.baseURL + req.Path

	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}

	for k, v := range t.headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(requestIDKey, uuid.New().String())

	if contentType != "" {
		httpReq.Header.Set(contentTypeKey, contentType)
	}

	if t.tokens != nil {
		if token := t.tokens.Token(); token != "" {
			httpReq.Header.Set(authHeaderKey, "Bearer "+token)
		}
	}

	// Caller headers win over everything computed above
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	if t.hooks != nil && t.hooks.OnRequest != nil {
		t.hooks.OnRequest(ctx, httpReq)
	}

	if t.logger != nil {
		t.logger.Debug("API request", "method", method, "url", url, "authenticated", httpReq.Header.Get(authHeaderKey) != "")
	}

	start := time.Now()
	resp, err := t.doRequest(httpReq)
	duration := time.Since(start)

	if err != nil {
		err = &types.TransportError{Method: method, URL: url, Err: err}
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, err)
		}
		if t.logger != nil {
			t.logger.Error("API request failed", "method", method, "url", url, "error", err)
		}
		return err
	}
	defer resp.Body.Close()

	if t.hooks != nil && t.hooks.OnResponse != nil {
		t.hooks.OnResponse(ctx, resp, duration)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}

	if t.logger != nil {
		t.logger.Debug("API response", "status", resp.StatusCode, "duration", duration, "size", len(respBody))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &types.HTTPError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Method:     method,
			Path:       req.Path,
		}
		if t.logger != nil {
			t.logger.Error("API error", "status", resp.StatusCode, "body", truncate(httpErr.Body))
		}
		if t.hooks != nil && t.hooks.OnError != nil {
			t.hooks.OnError(ctx, httpErr)
		}
		return httpErr
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}

	if err := json.Unmarshal(respBody, result); err != nil {
		return errors.Wrap(err, "failed to parse response")
	}

	return nil
}

// doRequest executes the HTTP request with retry if configured. POST and PATCH
// are sent once even then, since a replay could create a second listing.
func (t *REST) doRequest(req *http.Request) (*http.Response, error) {
	if t.retryClient != nil && retryable(req.Method) {
		retryReq, err := retryablehttp.FromRequest(req)
		if err != nil {
			return nil, err
		}
		return t.retryClient.Do(retryReq)
	}
	return t.httpClient.Do(req)
}

func retryable(method string) bool {
	return method != http.MethodPost && method != http.MethodPatch
}

// encodeBody returns the request body and the content type the transport must
// set. Binary payloads get no content type so the caller controls it.
func encodeBody(body interface{}) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *types.Form:
		if b == nil {
			return nil, "", nil
		}
		return encodeForm(b)
	case json.RawMessage:
		return bytes.NewReader(b), jsonContentType, nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case io.Reader:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to marshal request")
		}
		return bytes.NewReader(data), jsonContentType, nil
	}
}

// encodeForm writes a multipart form; the writer generates the boundary
func encodeForm(form *types.Form) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for _, field := range form.Fields {
		if err := writer.WriteField(field.Name, field.Value); err != nil {
			return nil, "", errors.Wrapf(err, "failed to write %s field", field.Name)
		}
	}

	for _, file := range form.Files {
		part, err := createFilePart(writer, file)
		if err != nil {
			return nil, "", errors.Wrapf(err, "failed to create form file %s", file.Field)
		}
		if file.Content != nil {
			if _, err := io.Copy(part, file.Content); err != nil {
				return nil, "", errors.Wrapf(err, "failed to write form file %s", file.Field)
			}
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", errors.Wrap(err, "failed to close multipart writer")
	}

	return &buf, writer.FormDataContentType(), nil
}

func createFilePart(writer *multipart.Writer, file types.FormFile) (io.Writer, error) {
	if file.ContentType == "" {
		return writer.CreateFormFile(file.Field, file.Filename)
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(file.Field), escapeQuotes(file.Filename)))
	h.Set(contentTypeKey, file.ContentType)
	return writer.CreatePart(h)
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

// truncate shortens long bodies for logging without splitting a rune
func truncate(s string) string {
	const maxLen = 200
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// retryLogger adapts our logger to retryablehttp
type retryLogger struct {
	logger types.Logger
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	l.logger.Error(msg, keysAndValues...)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Info(msg, keysAndValues...)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.logger.Warn(msg, keysAndValues...)
}
