package handler

import (
	"net/http"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ============================================================
// Projects
// ============================================================

type projectListResponse struct {
	Projects []domain.Project `json:"projects"`
	Total    int              `json:"total"`
}

func listProjectsHandler(svc *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/projects")
		defer span.End()

		projects, err := svc.ListProjects(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if projects == nil {
			projects = []domain.Project{}
		}
		writeJSON(w, http.StatusOK, projectListResponse{Projects: projects, Total: len(projects)})
	}
}

func getProjectHandler(svc *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/projects/{projectId}")
		defer span.End()

		projectID := chi.URLParam(r, "projectId")
		span.SetAttributes(attribute.String("project.id", projectID))

		project, err := svc.GetProject(ctx, projectID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, project)
	}
}

func createProjectHandler(svc *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/projects")
		defer span.End()

		var p domain.Project
		if !decodeJSON(w, r, &p) {
			return
		}

		created, err := svc.CreateProject(ctx, &p)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

func updateProjectHandler(svc *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/projects/{projectId}")
		defer span.End()

		var p domain.Project
		if !decodeJSON(w, r, &p) {
			return
		}
		// The path wins over any id in the body.
		p.ID = chi.URLParam(r, "projectId")

		updated, err := svc.UpdateProject(ctx, &p)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

func deleteProjectHandler(svc *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/projects/{projectId}")
		defer span.End()

		if err := svc.DeleteProject(ctx, chi.URLParam(r, "projectId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func projectContractsHandler(svc *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/projects/{projectId}/contracts")
		defer span.End()

		contracts, err := svc.ListContracts(ctx, chi.URLParam(r, "projectId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if contracts == nil {
			contracts = []domain.Contract{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"contracts": contracts})
	}
}

func listMaterialsHandler(svc *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/materials")
		defer span.End()

		materials, err := svc.ListMaterials(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if materials == nil {
			materials = []domain.Material{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"materials": materials})
	}
}
