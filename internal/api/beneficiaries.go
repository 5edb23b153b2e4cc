package api

import (
	"context"
	"net/http"

	"projadm/internal/models"
)

// ListBeneficiaries returns all beneficiaries
func (c *Client) ListBeneficiaries(ctx context.Context) ([]models.Beneficiary, error) {
	var out []models.Beneficiary
	if err := c.do(ctx, http.MethodGet, "beneficiaires", false, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetBeneficiary retrieves a beneficiary by ID
func (c *Client) GetBeneficiary(ctx context.Context, id string) (*models.Beneficiary, error) {
	var out models.Beneficiary
	if err := c.do(ctx, http.MethodGet, "beneficiaires/"+id, false, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateBeneficiary creates a new beneficiary
func (c *Client) CreateBeneficiary(ctx context.Context, p models.BeneficiaryPayload) (*models.Beneficiary, error) {
	var out models.Beneficiary
	if err := c.do(ctx, http.MethodPost, "beneficiaires", false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateBeneficiary replaces a beneficiary's fields
func (c *Client) UpdateBeneficiary(ctx context.Context, id string, p models.BeneficiaryPayload) (*models.Beneficiary, error) {
	var out models.Beneficiary
	if err := c.do(ctx, http.MethodPut, "beneficiaires/"+id, false, p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteBeneficiary removes a beneficiary
func (c *Client) DeleteBeneficiary(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "beneficiaires/"+id, false, nil, nil)
}
