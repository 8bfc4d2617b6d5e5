package market

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/eshaffer321/secondhand-go/internal/session"
	internalTypes "github.com/eshaffer321/secondhand-go/internal/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport is a mock implementation of the Transport interface
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Do(ctx context.Context, req *internalTypes.Request, result interface{}) error {
	args := m.Called(ctx, req, result)

	// If mock provides result data, unmarshal it
	if args.Get(0) != nil && result != nil {
		resultJSON := args.Get(0).(string)
		if err := json.Unmarshal([]byte(resultJSON), result); err != nil {
			return err
		}
	}

	return args.Error(1)
}

// newMockClient builds a client around a MockTransport and an in-memory session
func newMockClient(t *testing.T) (*Client, *MockTransport) {
	t.Helper()

	sess, err := session.NewManager(nil)
	require.NoError(t, err)

	mockTransport := new(MockTransport)
	client := &Client{
		transport: mockTransport,
		options:   &ClientOptions{},
		baseURL:   "https://api.test.com",
		session:   sess,
	}
	client.initServices()

	return client, mockTransport
}

// matchRequest matches a transport request by method and path
func matchRequest(method, path string) interface{} {
	return mock.MatchedBy(func(req *internalTypes.Request) bool {
		return req.Method == method && req.Path == path
	})
}
