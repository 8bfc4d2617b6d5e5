package market

import (
	"context"

	"github.com/pkg/errors"
)

// authService implements the AuthService interface. It is the only writer of
// the session: the transport just reads it.
type authService struct {
	client *Client
}

// Signup registers an account
func (a *authService) Signup(ctx context.Context, params *SignupParams) (*SignupResult, error) {
	if params == nil {
		return nil, &ValidationError{Field: "params", Message: "must not be nil"}
	}

	var result SignupResult
	if err := a.client.Post(ctx, "/api/users/signup", params, &result); err != nil {
		return nil, errors.Wrap(err, "signup failed")
	}

	if result.Token != "" {
		username := result.Username
		if username == "" {
			username = params.Username
		}
		if err := a.client.session.SetToken(result.Token, username); err != nil {
			return nil, errors.Wrap(err, "failed to store session")
		}
	}

	a.logInfo("Signup successful", "username", params.Username)
	return &result, nil
}

// Login authenticates and stores the returned token in the session
func (a *authService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	creds := &LoginCredentials{Username: username, Password: password}

	var result LoginResult
	if err := a.client.Post(ctx, "/api/users/login", creds, &result); err != nil {
		return nil, errors.Wrap(err, "login failed")
	}

	if result.Token == "" {
		return nil, errors.Wrap(ErrLoginFailed, "no token in login response")
	}
	if result.Username == "" {
		result.Username = username
	}

	if err := a.client.session.SetToken(result.Token, result.Username); err != nil {
		return nil, errors.Wrap(err, "failed to store session")
	}

	a.logInfo("Login successful", "username", result.Username)
	return &result, nil
}

// Logout clears the session
func (a *authService) Logout() error {
	username := a.client.session.Username()
	if err := a.client.session.ClearToken(); err != nil {
		return errors.Wrap(err, "failed to clear session")
	}

	a.logInfo("Logged out", "username", username)
	return nil
}

// GetSession returns the current session
func (a *authService) GetSession() (*Session, error) {
	return a.client.session.Current()
}

func (a *authService) logInfo(msg string, keysAndValues ...interface{}) {
	if a.client.options != nil && a.client.options.Logger != nil {
		a.client.options.Logger.Info(msg, keysAndValues...)
	}
}
