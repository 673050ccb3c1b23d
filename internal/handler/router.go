package handler

import (
	"net/http"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/auth"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"
	"github.com/atelierhq/studio-bfa-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Services groups the services the router exposes. Any of them may be nil
// in tests that only hit the operational endpoints.
type Services struct {
	Projects  *service.ProjectService
	Costs     *service.CostService
	Schedule  *service.ScheduleService
	Dashboard *service.DashboardService
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(svc Services, adminKeyHash string, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(svc.Projects, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(ForwardBearerMiddleware)

		// =============================================
		// Operator routes (admin key, service credentials)
		// POST /v1/spent/recompute
		// =============================================
		r.With(AdminKeyMiddleware(adminKeyHash, logger)).
			Post("/spent/recompute", batchRecomputeHandler(svc.Costs, svc.Projects, logger))

		// =============================================
		// Metrics
		// GET /v1/metrics/spend
		// =============================================
		r.Get("/metrics/spend", spendMetricsHandler(metrics))

		// Everything below calls the backend as the caller.
		r.Group(func(r chi.Router) {
			r.Use(RequireBearerMiddleware)

			// =============================================
			// Dashboard
			// GET /v1/dashboard
			// =============================================
			r.Get("/dashboard", dashboardHandler(svc.Dashboard, logger))

			// =============================================
			// Projects
			// =============================================
			r.Route("/projects", func(r chi.Router) {
				r.Get("/", listProjectsHandler(svc.Projects, logger))
				r.Post("/", createProjectHandler(svc.Projects, logger))

				r.Route("/{projectId}", func(r chi.Router) {
					r.Get("/", getProjectHandler(svc.Projects, logger))
					r.Put("/", updateProjectHandler(svc.Projects, logger))
					r.Delete("/", deleteProjectHandler(svc.Projects, logger))

					r.Get("/overview", projectOverviewHandler(svc.Dashboard, logger))
					r.Get("/spent", projectSpentHandler(svc.Costs))
					r.Post("/spent/recompute", recomputeProjectHandler(svc.Costs, svc.Projects))
					r.Get("/schedule", projectScheduleHandler(svc.Schedule, logger))
					r.Get("/contracts", projectContractsHandler(svc.Projects, logger))
				})
			})

			// =============================================
			// Spend (batch)
			// GET /v1/spent?ids=a,b,c
			// =============================================
			r.Get("/spent", batchSpentHandler(svc.Costs, logger))

			// =============================================
			// Materials
			// GET /v1/materials
			// =============================================
			r.Get("/materials", listMaterialsHandler(svc.Projects, logger))
		})
	})

	return r
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(projects *service.ProjectService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bfa-api", Status: "healthy", LastChecked: now},
		}

		if projects != nil {
			status := "healthy"
			if err := projects.Ping(auth.AsService(r.Context())); err != nil {
				logger.Warn("backend health check failed", zap.Error(err))
				status = "degraded"
			}
			services = append(services, domain.ServiceHealth{
				Name: "backend-api", Status: status, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status != "healthy" {
				overallStatus = s.Status
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func spendMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetSpendSnapshot())
	}
}
