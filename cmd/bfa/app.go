package main

import (
	"net/http"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/config"
	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/handler"
	"github.com/atelierhq/studio-bfa-go/internal/infra/auth"
	"github.com/atelierhq/studio-bfa-go/internal/infra/cache"
	"github.com/atelierhq/studio-bfa-go/internal/infra/client"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"
	"github.com/atelierhq/studio-bfa-go/internal/infra/resilience"
	"github.com/atelierhq/studio-bfa-go/internal/port"
	"github.com/atelierhq/studio-bfa-go/internal/service"

	"go.uber.org/zap"
)

// app holds the wired services shared by the serve and recompute commands.
type app struct {
	services handler.Services
	metrics  *observability.Metrics
	close    func()
}

// tokenChain orders the credentials used for backend calls: the caller's
// own bearer, then the persisted token file, the static token, and finally
// a minted service token. The service credentials only apply to contexts
// marked with auth.AsService.
func tokenChain(cfg *config.Config) port.TokenProvider {
	var service auth.Chain
	if cfg.BackendTokenFile != "" {
		service = append(service, auth.File{Path: cfg.BackendTokenFile})
	}
	if cfg.BackendToken != "" {
		service = append(service, auth.Static(cfg.BackendToken))
	}
	if cfg.ServiceJWTSecret != "" {
		service = append(service, auth.NewServiceJWT(cfg.ServiceJWTSecret, "studio-bfa", cfg.ServiceJWTTTL))
	}
	return auth.Chain{auth.Forwarded{}, auth.ServiceOnly{Provider: service}}
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	metrics := observability.NewMetrics()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}

	// --- Clients ---
	// Each resource gets its own breaker; the bulkhead is shared.
	backend := client.Backend{
		HTTPClient: &http.Client{Timeout: cfg.HTTPTimeout},
		BaseURL:    cfg.BackendAPIURL,
		Tokens:     tokenChain(cfg),
		Resilience: resilienceCfg,
		Bulkhead:   resilience.NewBulkhead(cfg.MaxConcurrency),
		Logger:     logger,
	}
	projectClient := client.NewProjectClient(backend)
	financialClient := client.NewFinancialClient(backend)
	materialClient := client.NewMaterialClient(backend)
	contractClient := client.NewContractClient(backend)

	// --- Cache ---
	projectCache := cache.New[[]domain.Project](cfg.CacheTTL)

	// --- Services ---
	clock := port.ClockFunc(time.Now)
	projectSvc := service.NewProjectService(projectClient, contractClient, materialClient, projectCache, metrics, logger)
	costSvc := service.NewCostService(financialClient, materialClient, projectClient, clock, cfg.BatchConcurrency, metrics, logger)
	scheduleSvc := service.NewScheduleService(projectClient, clock, metrics)
	dashboardSvc := service.NewDashboardService(projectSvc, costSvc, scheduleSvc, logger)

	return &app{
		services: handler.Services{
			Projects:  projectSvc,
			Costs:     costSvc,
			Schedule:  scheduleSvc,
			Dashboard: dashboardSvc,
		},
		metrics: metrics,
		close:   projectCache.Close,
	}
}
