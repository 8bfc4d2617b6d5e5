package market

import (
	"context"

	"github.com/pkg/errors"
)

const profilePath = "/api/users/profile"

// userService implements the UserService interface
type userService struct {
	client *Client
}

// GetProfile retrieves the current user's profile
func (s *userService) GetProfile(ctx context.Context) (*User, error) {
	var user User
	if err := s.client.Get(ctx, profilePath, &user); err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}
	return &user, nil
}

// UpdateProfile updates the current user's profile
func (s *userService) UpdateProfile(ctx context.Context, params *UpdateProfileParams) (*User, error) {
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}

	var user User
	if err := s.client.Put(ctx, profilePath, params, &user); err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}
	return &user, nil
}
