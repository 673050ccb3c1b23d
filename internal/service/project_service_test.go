package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/auth"
	"github.com/atelierhq/studio-bfa-go/internal/infra/cache"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"
	"github.com/atelierhq/studio-bfa-go/internal/service"

	"go.uber.org/zap"
)

func newProjectService(store *mockProjects, metrics *observability.Metrics) *service.ProjectService {
	return service.NewProjectService(
		store,
		&mockContracts{contracts: []domain.Contract{
			{ID: "c-1", ProjectID: "p-1", Title: "Design fee"},
			{ID: "c-2", ProjectID: "p-2", Title: "Furniture"},
		}},
		&mockCatalog{materials: []domain.Material{{ID: "m-1", Name: "Oak panel"}}},
		cache.New[[]domain.Project](5*time.Minute),
		metrics,
		zap.NewNop(),
	)
}

func TestListProjects_CachesResult(t *testing.T) {
	store := &mockProjects{projects: []domain.Project{{ID: "p-1", Name: "Loft"}}}
	metrics := observability.NewMetrics()
	svc := newProjectService(store, metrics)

	for i := 0; i < 3; i++ {
		projects, err := svc.ListProjects(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(projects) != 1 {
			t.Fatalf("expected 1 project, got %d", len(projects))
		}
	}

	if store.listCalls != 1 {
		t.Errorf("expected backend listed once, got %d", store.listCalls)
	}
	if rate := metrics.GetSpendSnapshot().CacheHitRate; rate < 0.66 || rate > 0.67 {
		t.Errorf("expected cache hit rate 2/3, got %f", rate)
	}
}

func TestListProjects_CachePerCaller(t *testing.T) {
	store := &mockProjects{byBearer: map[string][]domain.Project{
		"alice": {{ID: "alice-1", Name: "Alice Villa"}},
		"bob":   {{ID: "bob-1", Name: "Bob Loft"}},
	}}
	svc := newProjectService(store, observability.NewMetrics())

	alice := auth.WithBearer(context.Background(), "alice")
	bob := auth.WithBearer(context.Background(), "bob")

	got, err := svc.ListProjects(alice)
	if err != nil || len(got) != 1 || got[0].ID != "alice-1" {
		t.Fatalf("expected alice's list, got %+v (err %v)", got, err)
	}
	got, err = svc.ListProjects(bob)
	if err != nil || len(got) != 1 || got[0].ID != "bob-1" {
		t.Fatalf("expected bob's list, got %+v (err %v)", got, err)
	}
	got, _ = svc.ListProjects(context.Background())
	if len(got) != 0 {
		t.Errorf("expected anonymous caller to get nothing cached for others, got %+v", got)
	}
	if store.listCalls != 3 {
		t.Errorf("expected one backend call per caller, got %d", store.listCalls)
	}

	_, _ = svc.ListProjects(alice)
	if store.listCalls != 3 {
		t.Errorf("expected alice's second list from cache, got %d calls", store.listCalls)
	}

	if err := svc.DeleteProject(bob, "bob-1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	_, _ = svc.ListProjects(alice)
	if store.listCalls != 4 {
		t.Errorf("expected a write to drop every caller's list, got %d calls", store.listCalls)
	}
}

func TestListProjects_Error(t *testing.T) {
	svc := newProjectService(&mockProjects{listErr: errors.New("down")}, observability.NewMetrics())

	if _, err := svc.ListProjects(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestCreateProject_InvalidatesCache(t *testing.T) {
	store := &mockProjects{projects: []domain.Project{{ID: "p-1", Name: "Loft"}}}
	svc := newProjectService(store, observability.NewMetrics())

	_, _ = svc.ListProjects(context.Background())
	created, err := svc.CreateProject(context.Background(), &domain.Project{Name: "Villa", Budget: domain.NewAmount(5000)})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if created.Status != domain.StatusPlanning {
		t.Errorf("expected default status Planning, got %s", created.Status)
	}
	_, _ = svc.ListProjects(context.Background())

	if store.listCalls != 2 {
		t.Errorf("expected cache dropped after create, got %d list calls", store.listCalls)
	}
}

func TestCreateProject_Validation(t *testing.T) {
	store := &mockProjects{}
	svc := newProjectService(store, observability.NewMetrics())

	_, err := svc.CreateProject(context.Background(), &domain.Project{Name: "Loft", ActualProgress: 120})
	var v *domain.ErrValidation
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if v.Field != "actual_progress" {
		t.Errorf("expected field actual_progress, got %s", v.Field)
	}
	if len(store.created) != 0 {
		t.Error("invalid project must not reach the backend")
	}
}

func TestUpdateProject_RequiresID(t *testing.T) {
	svc := newProjectService(&mockProjects{}, observability.NewMetrics())

	_, err := svc.UpdateProject(context.Background(), &domain.Project{Name: "Loft"})
	var v *domain.ErrValidation
	if !errors.As(err, &v) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	svc := newProjectService(&mockProjects{}, observability.NewMetrics())

	_, err := svc.GetProject(context.Background(), "missing")
	var nf *domain.ErrNotFound
	if !errors.As(err, &nf) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteProject(t *testing.T) {
	store := &mockProjects{}
	svc := newProjectService(store, observability.NewMetrics())

	if err := svc.DeleteProject(context.Background(), "p-1"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != "p-1" {
		t.Errorf("expected p-1 deleted, got %v", store.deleted)
	}
}

func TestListContracts_FiltersByProject(t *testing.T) {
	svc := newProjectService(&mockProjects{}, observability.NewMetrics())

	contracts, err := svc.ListContracts(context.Background(), "p-2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(contracts) != 1 || contracts[0].ID != "c-2" {
		t.Errorf("expected contract c-2, got %+v", contracts)
	}
}
