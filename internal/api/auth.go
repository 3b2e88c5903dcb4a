package api

import (
	"context"

	http "github.com/bogdanfinn/fhttp"

	"github.com/maduarte/chatdeck/internal/config"
	apierrors "github.com/maduarte/chatdeck/internal/errors"
	"github.com/maduarte/chatdeck/internal/models"
)

// loginRequest is the body for login and signup
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// Login authenticates with the platform and returns the issued credentials.
// Token lifecycle (refresh, expiry) stays with the server; the client only
// stores what it is handed.
func (c *Client) Login(ctx context.Context, email, password string) (*config.Credentials, error) {
	return c.authenticate(ctx, models.PathLogin, loginRequest{
		Email:    email,
		Password: password,
	}, "login")
}

// Signup registers a new account and returns the issued credentials
func (c *Client) Signup(ctx context.Context, email, password, fullName string) (*config.Credentials, error) {
	return c.authenticate(ctx, models.PathSignup, loginRequest{
		Email:    email,
		Password: password,
		FullName: fullName,
	}, "signup")
}

func (c *Client) authenticate(ctx context.Context, path string, payload loginRequest, op string) (*config.Credentials, error) {
	result, err := c.doJSON(ctx, http.MethodPost, path, payload, op)
	if err != nil {
		return nil, err
	}

	access := result.Get("token.access_token").String()
	if access == "" {
		return nil, apierrors.NewParseError(op+": no access token in response", "token.access_token")
	}

	creds := &config.Credentials{
		AccessToken:  access,
		RefreshToken: result.Get("token.refresh_token").String(),
		Email:        result.Get("user.email").String(),
	}

	c.SetCredentials(creds)
	return creds, nil
}
