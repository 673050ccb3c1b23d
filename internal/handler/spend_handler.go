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
// Spend
// ============================================================

type spendListResponse struct {
	Projects []domain.ProjectSpend `json:"projects"`
	Degraded int                   `json:"degraded"`
}

type recomputeListResponse struct {
	Results   []domain.SpendRecompute `json:"results"`
	Persisted int                     `json:"persisted"`
	Failed    int                     `json:"failed"`
}

// Spend calculation never fails, so these handlers have no error path.
func projectSpentHandler(costs *service.CostService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/projects/{projectId}/spent")
		defer span.End()

		projectID := chi.URLParam(r, "projectId")
		span.SetAttributes(attribute.String("project.id", projectID))

		writeJSON(w, http.StatusOK, costs.CalculateProjectSpent(ctx, projectID))
	}
}

func recomputeProjectHandler(costs *service.CostService, projects *service.ProjectService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/projects/{projectId}/spent/recompute")
		defer span.End()

		res := costs.RecomputeAndPersist(ctx, chi.URLParam(r, "projectId"))
		if res.Persisted {
			projects.InvalidateList()
		}
		writeJSON(w, http.StatusOK, res)
	}
}

func batchSpentHandler(costs *service.CostService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/spent")
		defer span.End()

		spends, err := costs.CalculateAllProjectsSpent(ctx, parseIDs(r.URL.Query().Get("ids")))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp := spendListResponse{Projects: spends}
		for _, s := range spends {
			if s.Degraded() {
				resp.Degraded++
			}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func batchRecomputeHandler(costs *service.CostService, projects *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/spent/recompute")
		defer span.End()

		results, err := costs.RecomputeAllAndPersist(ctx, parseIDs(r.URL.Query().Get("ids")))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		resp := recomputeListResponse{Results: results}
		for _, res := range results {
			if res.Persisted {
				resp.Persisted++
			} else {
				resp.Failed++
			}
		}
		if resp.Persisted > 0 {
			projects.InvalidateList()
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
