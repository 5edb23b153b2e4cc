package api

import (
	"context"
	"net/http"

	"projadm/internal/models"
)

// ListUsers returns all users
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.do(ctx, http.MethodGet, "users", false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser retrieves a user by ID
func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodGet, "users/"+id, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateUser creates a new user. This is the only call that carries the
// password; it is never sent again.
func (c *Client) CreateUser(ctx context.Context, p models.UserPayload) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPost, "users", false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser replaces a user's fields, password excluded
func (c *Client) UpdateUser(ctx context.Context, id string, p models.UserUpdatePayload) (*models.User, error) {
	var out models.User
	if err := c.do(ctx, http.MethodPut, "users/"+id, false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes a user
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "users/"+id, false, nil, nil)
}
