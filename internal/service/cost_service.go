package service

import (
	"context"
	"fmt"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"
	"github.com/atelierhq/studio-bfa-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var costTracer = otel.Tracer("service/cost")

// CostService rolls financial expenses and material usage into a project's
// total spend. It never fails because a source is unavailable: the source
// contributes zero and is reported as failed.
type CostService struct {
	financial   port.FinancialFetcher
	materials   port.UsageLogFetcher
	projects    port.ProjectStore
	clock       port.Clock
	concurrency int
	metrics     *observability.Metrics
	logger      *zap.Logger
}

// NewCostService creates the cost service with all dependencies injected.
// concurrency bounds the batch fan-out; non-positive means unbounded.
func NewCostService(
	financial port.FinancialFetcher,
	materials port.UsageLogFetcher,
	projects port.ProjectStore,
	clock port.Clock,
	concurrency int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *CostService {
	if clock == nil {
		clock = port.ClockFunc(time.Now)
	}
	return &CostService{
		financial:   financial,
		materials:   materials,
		projects:    projects,
		clock:       clock,
		concurrency: concurrency,
		metrics:     metrics,
		logger:      logger,
	}
}

// CalculateProjectSpent fetches both sources concurrently and sums them.
func (s *CostService) CalculateProjectSpent(ctx context.Context, projectID string) domain.ProjectSpend {
	ctx, span := costTracer.Start(ctx, "CostService.CalculateProjectSpent")
	defer span.End()
	span.SetAttributes(attribute.String("project.id", projectID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("spend", time.Since(start))
	}()

	var financialRes, materialRes domain.SourceResult

	// Both goroutines swallow their errors; Wait only joins.
	var g errgroup.Group
	g.Go(func() error {
		financialRes = s.financialSource(ctx, projectID)
		return nil
	})
	g.Go(func() error {
		materialRes = s.materialSource(ctx, projectID)
		return nil
	})
	_ = g.Wait()

	spend := domain.NewProjectSpend(projectID, financialRes, materialRes, s.clock.Now())

	s.metrics.RecordSpend(spend.Degraded())
	span.SetAttributes(
		attribute.Float64("spend.total", spend.TotalSpent.Float64()),
		attribute.Bool("spend.degraded", spend.Degraded()),
	)
	return spend
}

func (s *CostService) financialSource(ctx context.Context, projectID string) domain.SourceResult {
	rec, err := s.financial.GetProjectFinancial(ctx, projectID)
	if err != nil {
		return s.failedSource(projectID, "financial", err)
	}
	if rec == nil || len(rec.Expenses) == 0 {
		return domain.SourceResult{Status: domain.SourceEmpty}
	}
	return domain.SourceResult{Amount: domain.AmountFromDecimal(rec.ExpenseTotal()), Status: domain.SourceOK}
}

func (s *CostService) materialSource(ctx context.Context, projectID string) domain.SourceResult {
	logs, err := s.materials.ListUsageLogs(ctx, projectID)
	if err != nil {
		return s.failedSource(projectID, "materials", err)
	}
	if len(logs) == 0 {
		return domain.SourceResult{Status: domain.SourceEmpty}
	}
	return domain.SourceResult{Amount: domain.AmountFromDecimal(domain.UsageTotal(logs)), Status: domain.SourceOK}
}

func (s *CostService) failedSource(projectID, source string, err error) domain.SourceResult {
	s.logger.Warn("spend source unavailable, counting as zero",
		zap.String("project_id", projectID),
		zap.String("source", source),
		zap.Error(err),
	)
	s.metrics.IncrExternalError(source)
	return domain.SourceResult{Status: domain.SourceFailed, Error: err.Error()}
}

// CalculateAllProjectsSpent computes every project's spend concurrently.
// With no ids, all projects known to the backend are used; failing to list
// them is the only error. Results keep the input order, one per project.
func (s *CostService) CalculateAllProjectsSpent(ctx context.Context, projectIDs []string) ([]domain.ProjectSpend, error) {
	ctx, span := costTracer.Start(ctx, "CostService.CalculateAllProjectsSpent")
	defer span.End()

	ids, err := s.resolveIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("projects.count", len(ids)))

	results := make([]domain.ProjectSpend, len(ids))
	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, id := range ids {
		g.Go(func() error {
			results[i] = s.CalculateProjectSpent(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	return results, nil
}

// RecomputeAndPersist computes the spend and stores the total on the project.
// A failed store is logged and reported, never returned.
func (s *CostService) RecomputeAndPersist(ctx context.Context, projectID string) domain.SpendRecompute {
	ctx, span := costTracer.Start(ctx, "CostService.RecomputeAndPersist")
	defer span.End()

	spend := s.CalculateProjectSpent(ctx, projectID)
	return s.persist(ctx, spend)
}

func (s *CostService) persist(ctx context.Context, spend domain.ProjectSpend) domain.SpendRecompute {
	out := domain.SpendRecompute{Spend: spend}
	if err := s.projects.UpdateSpent(ctx, spend.ProjectID, spend.TotalSpent.Float64()); err != nil {
		s.logger.Warn("failed to persist project spend",
			zap.String("project_id", spend.ProjectID),
			zap.Stringer("total_spent", spend.TotalSpent.Decimal()),
			zap.Error(err),
		)
		s.metrics.IncrExternalError("projects")
		s.metrics.RecordPersist(false)
		out.PersistError = err.Error()
		return out
	}
	s.metrics.RecordPersist(true)
	out.Persisted = true
	return out
}

// RecomputeAllAndPersist is the batch form of RecomputeAndPersist.
func (s *CostService) RecomputeAllAndPersist(ctx context.Context, projectIDs []string) ([]domain.SpendRecompute, error) {
	ctx, span := costTracer.Start(ctx, "CostService.RecomputeAllAndPersist")
	defer span.End()

	runID := uuid.NewString()
	span.SetAttributes(attribute.String("run.id", runID))

	ids, err := s.resolveIDs(ctx, projectIDs)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SpendRecompute, len(ids))
	var g errgroup.Group
	if s.concurrency > 0 {
		g.SetLimit(s.concurrency)
	}
	for i, id := range ids {
		g.Go(func() error {
			results[i] = s.RecomputeAndPersist(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	persisted := 0
	for _, r := range results {
		if r.Persisted {
			persisted++
		}
	}
	s.logger.Info("spend recompute finished",
		zap.String("run_id", runID),
		zap.Int("projects", len(results)),
		zap.Int("persisted", persisted),
	)
	return results, nil
}

func (s *CostService) resolveIDs(ctx context.Context, projectIDs []string) ([]string, error) {
	if len(projectIDs) > 0 {
		return projectIDs, nil
	}
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		s.metrics.IncrExternalError("projects")
		return nil, fmt.Errorf("list projects: %w", err)
	}
	ids := make([]string, 0, len(projects))
	for _, p := range projects {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

// BudgetUtilization is spent as a percentage of budget, 0 without a budget.
func (s *CostService) BudgetUtilization(totalSpent, budget domain.Amount) float64 {
	return domain.BudgetUtilization(totalSpent.Float64(), budget.Float64())
}
