package market

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordedRequest captures what the fake backend received
type recordedRequest struct {
	Method        string
	Path          string
	Authorization string
	HasAuth       bool
	ContentType   string
}

// fakeBackend serves the marketplace endpoints the client talks to
type fakeBackend struct {
	mu       sync.Mutex
	requests []recordedRequest
	server   *httptest.Server
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{}
	mux := http.NewServeMux()

	mux.HandleFunc("/api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var creds LoginCredentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Username != "testuser1" || creds.Password != "test123!" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte("invalid credentials"))
			return
		}
		w.Write([]byte(`{"token": "abc123", "username": "testuser1"}`))
	})
	mux.HandleFunc("/api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"username": "testuser1", "email": "test1@example.com"}`))
	})
	mux.HandleFunc("/api/products", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			if err := r.ParseMultipartForm(1 << 20); err != nil {
				w.WriteHeader(http.StatusBadRequest)
				w.Write([]byte(err.Error()))
				return
			}
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"message": "registered", "status": "success"}`))
			return
		}
		w.Write([]byte(`[{"id": 1, "title": "Desk", "sellerUsername": "testuser1"}]`))
	})
	mux.HandleFunc("/api/products/999", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not Found"))
	})

	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasAuth := r.Header["Authorization"]
		b.mu.Lock()
		b.requests = append(b.requests, recordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			HasAuth:       hasAuth,
			ContentType:   r.Header.Get("Content-Type"),
		})
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)

	return b
}

func (b *fakeBackend) last() recordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[len(b.requests)-1]
}

func newTestClient(t *testing.T, backend *fakeBackend, opts *ClientOptions) *Client {
	t.Helper()
	if opts == nil {
		opts = &ClientOptions{}
	}
	opts.BaseURL = backend.server.URL

	client, err := NewClient(opts)
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(nil)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, time.Duration(0), client.httpClient.Timeout)
	assert.NotNil(t, client.Products)
	assert.NotNil(t, client.Auth)
	assert.NotNil(t, client.Users)
	assert.Equal(t, "", client.Session().Token())
}

func TestNewClient_TimeoutDoesNotMutateCallerClient(t *testing.T) {
	shared := &http.Client{}

	client, err := NewClient(&ClientOptions{HTTPClient: shared, Timeout: 5 * time.Second})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, 5*time.Second, client.httpClient.Timeout)
	assert.Equal(t, time.Duration(0), shared.Timeout)
	assert.NotSame(t, shared, client.httpClient)
}

func TestNewClientWithToken(t *testing.T) {
	client, err := NewClientWithToken("abc123")
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "abc123", client.Session().Token())
}

func TestScenario_LoginThenProfileCarriesBearer(t *testing.T) {
	backend := newFakeBackend(t)
	client := newTestClient(t, backend, nil)
	ctx := context.Background()

	_, err := client.Auth.Login(ctx, "testuser1", "test123!")
	require.NoError(t, err)
	assert.Equal(t, "abc123", client.Session().Token())

	profile, err := client.Users.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "testuser1", profile.Username)
	assert.Equal(t, "Bearer abc123", backend.last().Authorization)
}

func TestScenario_CreateWithImageHasNoJSONContentType(t *testing.T) {
	backend := newFakeBackend(t)
	client := newTestClient(t, backend, &ClientOptions{Token: "abc123"})

	result, err := client.Products.Create(context.Background(), &CreateProductParams{
		Title:      "Bicycle",
		Price:      120000,
		Location:   "Seoul",
		CategoryID: 5,
		Image:      &Image{Filename: "bike.png", ContentType: "image/png", Content: strings.NewReader("PNGDATA")},
	})

	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	last := backend.last()
	assert.True(t, strings.HasPrefix(last.ContentType, "multipart/form-data"), last.ContentType)
	assert.NotEqual(t, "application/json", last.ContentType)
}

func TestScenario_GetByIDNotFound(t *testing.T) {
	backend := newFakeBackend(t)
	client := newTestClient(t, backend, nil)

	_, err := client.Products.Get(context.Background(), "999")

	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
	assert.Contains(t, err.Error(), "Not Found")
}

func TestScenario_LogoutThenCreateOmitsAuthorization(t *testing.T) {
	backend := newFakeBackend(t)
	client := newTestClient(t, backend, nil)
	ctx := context.Background()

	_, err := client.Auth.Login(ctx, "testuser1", "test123!")
	require.NoError(t, err)
	require.NoError(t, client.Auth.Logout())

	_, err = client.Products.Create(ctx, &CreateProductParams{Title: "Lamp"})
	require.NoError(t, err)
	assert.False(t, backend.last().HasAuth)
}

func TestClient_GenericMethods(t *testing.T) {
	var method, contentType, body string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.Write([]byte(`{"echo": "` + r.Method + `"}`))
	}))
	defer server.Close()

	client, err := NewClient(&ClientOptions{BaseURL: server.URL})
	require.NoError(t, err)
	defer client.Close()
	ctx := context.Background()

	var result map[string]string

	require.NoError(t, client.Get(ctx, "/x", &result))
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "", contentType)

	require.NoError(t, client.Post(ctx, "/x", map[string]int{"a": 1}, &result))
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"a":1}`, body)

	require.NoError(t, client.Put(ctx, "/x", NewForm().AddField("a", "1"), &result))
	assert.Equal(t, http.MethodPut, method)
	assert.True(t, strings.HasPrefix(contentType, "multipart/form-data"))

	require.NoError(t, client.Delete(ctx, "/x", &result))
	assert.Equal(t, http.MethodDelete, method)
	assert.Equal(t, "DELETE", result["echo"])

	require.NoError(t, client.Request(ctx, &Request{
		Method:  http.MethodPost,
		Path:    "/x",
		Body:    map[string]int{"a": 1},
		Headers: map[string]string{"Content-Type": "text/plain"},
	}, &result))
	assert.Equal(t, "text/plain", contentType)
}

func TestClient_SharedSessionAcrossClients(t *testing.T) {
	backend := newFakeBackend(t)

	sess, err := NewSessionManager(nil)
	require.NoError(t, err)

	first := newTestClient(t, backend, &ClientOptions{Session: sess})
	second := newTestClient(t, backend, &ClientOptions{Session: sess})

	_, err = first.Auth.Login(context.Background(), "testuser1", "test123!")
	require.NoError(t, err)

	_, err = second.Users.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc123", backend.last().Authorization)
}

func TestClient_SessionSurvivesRestart(t *testing.T) {
	backend := newFakeBackend(t)
	dbPath := filepath.Join(t.TempDir(), "market.db")

	first, err := NewClient(&ClientOptions{BaseURL: backend.server.URL, SessionDB: dbPath})
	require.NoError(t, err)
	_, err = first.Auth.Login(context.Background(), "testuser1", "test123!")
	require.NoError(t, err)
	first.Close()

	second := newTestClient(t, backend, &ClientOptions{SessionDB: dbPath})
	assert.Equal(t, "abc123", second.Session().Token())

	_, err = second.Users.GetProfile(context.Background())
	require.NoError(t, err)
}

func TestClient_SessionFile(t *testing.T) {
	backend := newFakeBackend(t)
	path := filepath.Join(t.TempDir(), "session.json")

	first := newTestClient(t, backend, &ClientOptions{SessionFile: path})
	require.NoError(t, first.SetToken("abc123", "testuser1"))

	second := newTestClient(t, backend, &ClientOptions{SessionFile: path})
	assert.Equal(t, "testuser1", second.Session().Username())
}

type denyLimiter struct{}

func (denyLimiter) Wait(ctx context.Context) error { return errors.New("limit exceeded") }

func TestClient_RateLimiterError(t *testing.T) {
	backend := newFakeBackend(t)
	client := newTestClient(t, backend, &ClientOptions{RateLimiter: denyLimiter{}})

	err := client.Get(context.Background(), "/api/products", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limiter")
	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Empty(t, backend.requests)
}
