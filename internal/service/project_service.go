package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/auth"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"
	"github.com/atelierhq/studio-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var projectTracer = otel.Tracer("service/project")

const projectListPrefix = "projects:list:"

// projectListKey scopes the cached list to the caller: the backend filters
// projects by the bearer, so one caller's list must never serve another.
func projectListKey(ctx context.Context) string {
	bearer := auth.BearerFromContext(ctx)
	if bearer == "" {
		return projectListPrefix + "service"
	}
	sum := sha256.Sum256([]byte(bearer))
	return projectListPrefix + hex.EncodeToString(sum[:])
}

// ProjectService fronts the backend's project, contract and material
// resources. The project list is cached per caller and every cached list
// is dropped on any write.
type ProjectService struct {
	store     port.ProjectStore
	contracts port.ContractFetcher
	catalog   port.MaterialCatalog
	cache     port.Cache[[]domain.Project]
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewProjectService creates the project service with all dependencies injected.
func NewProjectService(
	store port.ProjectStore,
	contracts port.ContractFetcher,
	catalog port.MaterialCatalog,
	cache port.Cache[[]domain.Project],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *ProjectService {
	return &ProjectService{
		store:     store,
		contracts: contracts,
		catalog:   catalog,
		cache:     cache,
		metrics:   metrics,
		logger:    logger,
	}
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	ctx, span := projectTracer.Start(ctx, "ProjectService.ListProjects")
	defer span.End()

	key := projectListKey(ctx)
	if cached, ok := s.cache.Get(key); ok {
		s.metrics.IncrCacheHit("projects")
		return cached, nil
	}
	s.metrics.IncrCacheMiss("projects")

	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		s.metrics.IncrExternalError("projects")
		return nil, fmt.Errorf("list projects: %w", err)
	}
	s.cache.Set(key, projects)
	return projects, nil
}

func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	ctx, span := projectTracer.Start(ctx, "ProjectService.GetProject")
	defer span.End()

	if projectID == "" {
		return nil, &domain.ErrValidation{Field: "project_id", Message: "required"}
	}
	return s.store.GetProject(ctx, projectID)
}

func (s *ProjectService) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, span := projectTracer.Start(ctx, "ProjectService.CreateProject")
	defer span.End()

	if err := p.Validate(); err != nil {
		return nil, err
	}
	created, err := s.store.CreateProject(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.DeletePrefix(projectListPrefix)
	s.logger.Info("project created", zap.String("project_id", created.ID))
	return created, nil
}

func (s *ProjectService) UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	ctx, span := projectTracer.Start(ctx, "ProjectService.UpdateProject")
	defer span.End()

	if p.ID == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "required"}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	updated, err := s.store.UpdateProject(ctx, p)
	if err != nil {
		return nil, err
	}
	s.cache.DeletePrefix(projectListPrefix)
	return updated, nil
}

func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	ctx, span := projectTracer.Start(ctx, "ProjectService.DeleteProject")
	defer span.End()

	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		return err
	}
	s.cache.DeletePrefix(projectListPrefix)
	s.logger.Info("project deleted", zap.String("project_id", projectID))
	return nil
}

// Ping lists projects straight from the backend, bypassing the cache.
func (s *ProjectService) Ping(ctx context.Context) error {
	_, err := s.store.ListProjects(ctx)
	return err
}

// InvalidateList drops every cached project list (after spend totals change).
func (s *ProjectService) InvalidateList() {
	s.cache.DeletePrefix(projectListPrefix)
}

func (s *ProjectService) ListContracts(ctx context.Context, projectID string) ([]domain.Contract, error) {
	ctx, span := projectTracer.Start(ctx, "ProjectService.ListContracts")
	defer span.End()

	return s.contracts.ListByProject(ctx, projectID)
}

func (s *ProjectService) ListMaterials(ctx context.Context) ([]domain.Material, error) {
	ctx, span := projectTracer.Start(ctx, "ProjectService.ListMaterials")
	defer span.End()

	return s.catalog.ListMaterials(ctx)
}
