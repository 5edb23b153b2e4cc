package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"projadm/internal/models"
)

// ListTechniques returns the technique operations belonging to a project
func (c *Client) ListTechniques(ctx context.Context, projectID string) ([]models.TechniqueOperation, error) {
	query := url.Values{}
	query.Set("filter", fmt.Sprintf("project.id||eq||%s", projectID))

	var out []models.TechniqueOperation
	if err := c.do(ctx, http.MethodGet, "operations-techniques?"+query.Encode(), false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTechnique retrieves a technique operation by ID
func (c *Client) GetTechnique(ctx context.Context, id string) (*models.TechniqueOperation, error) {
	var out models.TechniqueOperation
	if err := c.do(ctx, http.MethodGet, "operations-techniques/"+id, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateTechnique creates a new technique operation
func (c *Client) CreateTechnique(ctx context.Context, p models.TechniquePayload) (*models.TechniqueOperation, error) {
	var out models.TechniqueOperation
	if err := c.do(ctx, http.MethodPost, "operations-techniques", false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateTechnique replaces a technique operation's fields
func (c *Client) UpdateTechnique(ctx context.Context, id string, p models.TechniquePayload) (*models.TechniqueOperation, error) {
	var out models.TechniqueOperation
	if err := c.do(ctx, http.MethodPut, "operations-techniques/"+id, false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteTechnique removes a technique operation
func (c *Client) DeleteTechnique(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "operations-techniques/"+id, false, nil, nil)
}
