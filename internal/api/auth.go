package api

import (
	"context"
	"net/http"

	"projadm/internal/models"
)

// Login exchanges credentials for an access token and persists it.
// The login endpoint is the only public call the client makes.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "auth/login", true, creds, &out); err != nil {
		return nil, err
	}
	if err := c.tokens.SetToken(out.AccessToken); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout drops the persisted token. Purely client-side; the server keeps
// no session state.
func (c *Client) Logout() error {
	return c.tokens.ClearToken()
}
