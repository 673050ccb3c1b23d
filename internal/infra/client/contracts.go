package client

import (
	"context"
	"net/url"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
)

// ContractClient reads /contracts. Implements port.ContractFetcher.
type ContractClient struct {
	res *Resource
}

// NewContractClient creates a new ContractClient.
func NewContractClient(b Backend) *ContractClient {
	return &ContractClient{res: NewResource(b, "contracts", "/contracts")}
}

func (c *ContractClient) ListByProject(ctx context.Context, projectID string) ([]domain.Contract, error) {
	var env domain.ContractsResponse
	if err := c.res.Get(ctx, "", url.Values{"projectId": {projectID}}, &env); err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.res.Name(), env.Success, env.Message); err != nil {
		return nil, err
	}
	if env.Contracts == nil {
		return []domain.Contract{}, nil
	}
	return env.Contracts, nil
}
