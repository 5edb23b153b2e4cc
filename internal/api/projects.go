package api

import (
	"context"
	"net/http"

	"projadm/internal/models"
)

// ListProjects returns all projects
func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var out []models.Project
	if err := c.do(ctx, http.MethodGet, "projects", false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetProject retrieves a project by ID
func (c *Client) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodGet, "projects/"+id, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateProject creates a new project
func (c *Client) CreateProject(ctx context.Context, p models.ProjectPayload) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodPost, "projects", false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProject replaces a project's fields
func (c *Client) UpdateProject(ctx context.Context, id string, p models.ProjectPayload) (*models.Project, error) {
	var out models.Project
	if err := c.do(ctx, http.MethodPut, "projects/"+id, false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteProject removes a project
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "projects/"+id, false, nil, nil)
}
