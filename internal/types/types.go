package types

import (
	"context"
	"io"
	"net/http"
	"time"
)

// Session is the persisted authentication state of the client
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Logger interface for logging
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// RetryConfig configures retry behavior
type RetryConfig struct {
	MaxRetries int           `json:"maxRetries"`
	RetryWait  time.Duration `json:"retryWait"`
	MaxWait    time.Duration `json:"maxWait"`
}

// Hooks provides lifecycle hooks for requests
type Hooks struct {
	OnRequest  func(ctx context.Context, req *http.Request)
	OnResponse func(ctx context.Context, resp *http.Response, duration time.Duration)
	OnError    func(ctx context.Context, err error)
}

// Request describes a single backend call. Body is a JSON-serializable value,
// a *Form for multipart uploads, or an io.Reader for raw binary payloads.
type Request struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// FormField is a single text field of a multipart form
type FormField struct {
	Name  string
	Value string
}

// FormFile is a single file part of a multipart form
type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     io.Reader
}

// Form is a multipart/form-data payload. Fields and files are written in the
// order they were added.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

// NewForm creates an empty multipart form
func NewForm() *Form {
	return &Form{}
}

// AddField appends a text field
func (f *Form) AddField(name, value string) *Form {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
	return f
}

// AddFile appends a file part
func (f *Form) AddFile(field, filename, contentType string, content io.Reader) *Form {
	f.Files = append(f.Files, FormFile{
		Field:       field,
		Filename:    filename,
		ContentType: contentType,
		Content:     content,
	})
	return f
}
