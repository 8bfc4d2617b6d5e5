package market

import (
	"context"
	"net/http"
	"testing"

	internalTypes "github.com/eshaffer321/secondhand-go/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetProfile(t *testing.T) {
	client, mockTransport := newMockClient(t)

	mockTransport.On("Do", mock.Anything, matchRequest(http.MethodGet, "/api/users/profile"), mock.Anything).
		Return(`{"id": 3, "username": "testuser1", "email": "test1@example.com"}`, nil)

	user, err := client.Users.GetProfile(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), user.ID)
	assert.Equal(t, "testuser1", user.Username)
	assert.Equal(t, "test1@example.com", user.Email)
	mockTransport.AssertExpectations(t)
}

func TestUserService_UpdateProfile(t *testing.T) {
	client, mockTransport := newMockClient(t)

	mockTransport.On("Do", mock.Anything, mock.MatchedBy(func(req *internalTypes.Request) bool {
		params, ok := req.Body.(*UpdateProfileParams)
		return ok && req.Method == http.MethodPut && req.Path == "/api/users/profile" && params.Email == "new@example.com"
	}), mock.Anything).Return(`{"username": "testuser1", "email": "new@example.com"}`, nil)

	user, err := client.Users.UpdateProfile(context.Background(), &UpdateProfileParams{Email: "new@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email)

	_, err = client.Users.UpdateProfile(context.Background(), nil)
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
