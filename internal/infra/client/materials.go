package client

import (
	"context"
	"net/url"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
)

// MaterialClient reads /materials. Implements port.UsageLogFetcher and
// port.MaterialCatalog.
type MaterialClient struct {
	res *Resource
}

// NewMaterialClient creates a new MaterialClient.
func NewMaterialClient(b Backend) *MaterialClient {
	return &MaterialClient{res: NewResource(b, "materials", "/materials")}
}

// ListUsageLogs fetches GET /materials/usage-logs?projectId=:id.
func (c *MaterialClient) ListUsageLogs(ctx context.Context, projectID string) ([]domain.MaterialUsageLog, error) {
	ctx, span := tracer.Start(ctx, "MaterialClient.ListUsageLogs")
	defer span.End()

	var env domain.UsageLogsResponse
	err := c.res.Get(ctx, "/usage-logs", url.Values{"projectId": {projectID}}, &env)
	if isNotFound(err) {
		return []domain.MaterialUsageLog{}, nil
	}
	if err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.res.Name(), env.Success, env.Message); err != nil {
		return nil, err
	}
	return env.Logs, nil
}

// ListMaterials fetches the catalog.
func (c *MaterialClient) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	var env domain.MaterialsResponse
	if err := c.res.Get(ctx, "", nil, &env); err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.res.Name(), env.Success, env.Message); err != nil {
		return nil, err
	}
	if env.Materials == nil {
		return []domain.Material{}, nil
	}
	return env.Materials, nil
}
