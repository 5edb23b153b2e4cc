package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"projadm/internal/models"
)

// ListFinances returns the finance operations belonging to a project.
// The server exposes a CRUD-style filter query on the collection.
func (c *Client) ListFinances(ctx context.Context, projectID string) ([]models.FinanceOperation, error) {
	query := url.Values{}
	query.Set("filter", fmt.Sprintf("project.id||eq||%s", projectID))

	var out []models.FinanceOperation
	if err := c.do(ctx, http.MethodGet, "operations-finance?"+query.Encode(), false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetFinance retrieves a finance operation by ID
func (c *Client) GetFinance(ctx context.Context, id string) (*models.FinanceOperation, error) {
	var out models.FinanceOperation
	if err := c.do(ctx, http.MethodGet, "operations-finance/"+id, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateFinance creates a new finance operation
func (c *Client) CreateFinance(ctx context.Context, p models.FinancePayload) (*models.FinanceOperation, error) {
	var out models.FinanceOperation
	if err := c.do(ctx, http.MethodPost, "operations-finance", false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateFinance replaces a finance operation's fields
func (c *Client) UpdateFinance(ctx context.Context, id string, p models.FinancePayload) (*models.FinanceOperation, error) {
	var out models.FinanceOperation
	if err := c.do(ctx, http.MethodPut, "operations-finance/"+id, false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFinance removes a finance operation
func (c *Client) DeleteFinance(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "operations-finance/"+id, false, nil, nil)
}
