package api

import (
	"context"
	"net/http"

	"projadm/internal/models"
)

// ListExperts returns all experts
func (c *Client) ListExperts(ctx context.Context) ([]models.Expert, error) {
	var out []models.Expert
	if err := c.do(ctx, http.MethodGet, "experts", false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetExpert retrieves an expert by ID
func (c *Client) GetExpert(ctx context.Context, id string) (*models.Expert, error) {
	var out models.Expert
	if err := c.do(ctx, http.MethodGet, "experts/"+id, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateExpert creates a new expert
func (c *Client) CreateExpert(ctx context.Context, p models.ExpertPayload) (*models.Expert, error) {
	var out models.Expert
	if err := c.do(ctx, http.MethodPost, "experts", false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExpert replaces an expert's fields
func (c *Client) UpdateExpert(ctx context.Context, id string, p models.ExpertPayload) (*models.Expert, error) {
	var out models.Expert
	if err := c.do(ctx, http.MethodPut, "experts/"+id, false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteExpert removes an expert
func (c *Client) DeleteExpert(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "experts/"+id, false, nil, nil)
}
