package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/Tetsu-is/danceverse/internal/domain"
	"go.uber.org/zap"
)

// AuthResult is the outcome of SignUp. Session is nil while the account awaits verification.
type AuthResult struct {
	User    domain.User
	Session *domain.Session
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*AuthResult, error) {
	req, err := c.jsonRequest(http.MethodPost, "/auth/v1/signup", domain.Credentials{Email: email, Password: password}, false)
	if err != nil {
		return nil, err
	}

	var resp domain.SignupResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, errors.New("signup response has no user")
	}

	result := &AuthResult{User: *resp.User, Session: resp.Session}
	if resp.Session != nil {
		if err := c.tokens.Save(resp.Session); err != nil {
			return nil, err
		}
		c.notify(SignedIn, resp.Session)
	}
	return result, nil
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	req, err := c.jsonRequest(http.MethodPost, "/auth/v1/token", domain.Credentials{Email: email, Password: password}, false)
	if err != nil {
		return nil, err
	}

	var resp domain.SigninResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}

	if err := c.tokens.Save(&resp.Session); err != nil {
		return nil, err
	}
	c.notify(SignedIn, &resp.Session)
	return &resp.Session, nil
}

// SignOut drops the local credential even when the backend call fails.
func (c *Client) SignOut(ctx context.Context) error {
	var remoteErr error
	if _, err := c.accessToken(); err == nil {
		req, _ := c.jsonRequest(http.MethodPost, "/auth/v1/logout", nil, true)
		remoteErr = c.do(ctx, req, nil)
		if remoteErr != nil {
			c.log.Warn("remote sign out failed", zap.Error(remoteErr))
		}
	}

	if err := c.tokens.Clear(); err != nil {
		return err
	}
	c.notify(SignedOut, nil)

	var apiErr *APIError
	if errors.As(remoteErr, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		return nil
	}
	return remoteErr
}

// CurrentUser reports the signed in user. An expired or revoked credential is
// discarded and reported as signed out.
func (c *Client) CurrentUser(ctx context.Context) (string, bool, error) {
	if _, err := c.accessToken(); errors.Is(err, ErrNotSignedIn) {
		return "", false, nil
	} else if err != nil {
		return "", false, err
	}

	req, _ := c.jsonRequest(http.MethodGet, "/auth/v1/user", nil, true)
	var user domain.User
	err := c.do(ctx, req, &user)

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		if err := c.tokens.Clear(); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return user.ID, true, nil
}
