package port

import (
	"context"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
)

// ProjectStore handles project CRUD against the backend.
type ProjectStore interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	GetProject(ctx context.Context, projectID string) (*domain.Project, error)
	CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error)
	DeleteProject(ctx context.Context, projectID string) error
	UpdateSpent(ctx context.Context, projectID string, spent float64) error
}

// FinancialFetcher retrieves the financial record of a project.
// A nil record with a nil error means the project has no financial data.
type FinancialFetcher interface {
	GetProjectFinancial(ctx context.Context, projectID string) (*domain.FinancialRecord, error)
}

// UsageLogFetcher retrieves material usage logs of a project.
type UsageLogFetcher interface {
	ListUsageLogs(ctx context.Context, projectID string) ([]domain.MaterialUsageLog, error)
}

// MaterialCatalog lists the materials known to the backend.
type MaterialCatalog interface {
	ListMaterials(ctx context.Context) ([]domain.Material, error)
}

// ContractFetcher lists contracts attached to a project.
type ContractFetcher interface {
	ListByProject(ctx context.Context, projectID string) ([]domain.Contract, error)
}
