package client

import (
	"context"
	"errors"
	"net/url"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
)

// ProjectClient manages /projects. Implements port.ProjectStore.
type ProjectClient struct {
	res *Resource
}

// NewProjectClient creates a new ProjectClient.
func NewProjectClient(b Backend) *ProjectClient {
	return &ProjectClient{res: NewResource(b, "projects", "/projects")}
}

func (c *ProjectClient) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var env domain.ProjectsResponse
	if err := c.res.Get(ctx, "", nil, &env); err != nil {
		return nil, err
	}
	if err := checkEnvelope(c.res.Name(), env.Success, env.Message); err != nil {
		return nil, err
	}
	if env.Projects == nil {
		return []domain.Project{}, nil
	}
	return env.Projects, nil
}

func (c *ProjectClient) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var env domain.ProjectResponse
	if err := c.res.Get(ctx, "/"+url.PathEscape(projectID), nil, &env); err != nil {
		return nil, err
	}
	return c.single(env, projectID)
}

func (c *ProjectClient) CreateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	var env domain.ProjectResponse
	if err := c.res.Post(ctx, "", p, &env); err != nil {
		return nil, err
	}
	return c.single(env, p.Name)
}

func (c *ProjectClient) UpdateProject(ctx context.Context, p *domain.Project) (*domain.Project, error) {
	if p.ID == "" {
		return nil, &domain.ErrValidation{Field: "id", Message: "required"}
	}
	var env domain.ProjectResponse
	if err := c.res.Put(ctx, "/"+url.PathEscape(p.ID), p, &env); err != nil {
		return nil, err
	}
	return c.single(env, p.ID)
}

func (c *ProjectClient) DeleteProject(ctx context.Context, projectID string) error {
	return c.res.Delete(ctx, "/"+url.PathEscape(projectID))
}

// UpdateSpent stores a recomputed total: PUT /projects/:id/spent {spent}.
func (c *ProjectClient) UpdateSpent(ctx context.Context, projectID string, spent float64) error {
	return c.res.Put(ctx, "/"+url.PathEscape(projectID)+"/spent", domain.SpentUpdate{Spent: spent}, nil)
}

func (c *ProjectClient) single(env domain.ProjectResponse, id string) (*domain.Project, error) {
	if err := checkEnvelope(c.res.Name(), env.Success, env.Message); err != nil {
		return nil, err
	}
	if env.Project == nil {
		return nil, &domain.ErrNotFound{Resource: "project", ID: id}
	}
	return env.Project, nil
}

// isNotFound reports a 404 from the backend.
func isNotFound(err error) bool {
	var nf *domain.ErrNotFound
	return errors.As(err, &nf)
}
