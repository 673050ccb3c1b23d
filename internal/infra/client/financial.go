package client

import (
	"context"
	"net/url"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
)

// FinancialClient reads /financial. Implements port.FinancialFetcher.
type FinancialClient struct {
	res *Resource
}

// NewFinancialClient creates a new FinancialClient.
func NewFinancialClient(b Backend) *FinancialClient {
	return &FinancialClient{res: NewResource(b, "financial", "/financial")}
}

// GetProjectFinancial fetches GET /financial/projects/:id. A project the
// backend has no financial record for yields (nil, nil).
func (c *FinancialClient) GetProjectFinancial(ctx context.Context, projectID string) (*domain.FinancialRecord, error) {
	ctx, span := tracer.Start(ctx, "FinancialClient.GetProjectFinancial")
	defer span.End()

	var env domain.FinancialResponse
	err := c.res.Get(ctx, "/projects/"+url.PathEscape(projectID), nil, &env)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.res.Name(), env.Success, env.Message); err != nil {
		return nil, err
	}
	return env.Project, nil
}
