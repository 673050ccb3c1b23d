package service

import (
	"context"
	"errors"

	"github.com/atelierhq/studio-bfa-go/internal/domain"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var dashboardTracer = otel.Tracer("service/dashboard")

// DashboardService assembles the studio dashboard: spend, budget
// utilization and schedule for every project, plus totals.
type DashboardService struct {
	projects *ProjectService
	costs    *CostService
	schedule *ScheduleService
	logger   *zap.Logger
}

// NewDashboardService wires the dashboard on top of the other services.
func NewDashboardService(projects *ProjectService, costs *CostService, schedule *ScheduleService, logger *zap.Logger) *DashboardService {
	return &DashboardService{projects: projects, costs: costs, schedule: schedule, logger: logger}
}

// Overview builds the full dashboard. Only a failure to list projects is an error.
func (s *DashboardService) Overview(ctx context.Context) (*domain.Dashboard, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Overview")
	defer span.End()

	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	spends := []domain.ProjectSpend{}
	if len(ids) > 0 {
		spends, err = s.costs.CalculateAllProjectsSpent(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	dash := &domain.Dashboard{
		Projects: make([]domain.ProjectOverview, 0, len(projects)),
		Totals: domain.DashboardTotals{
			ByStatus: map[domain.ProjectStatus]int{},
		},
		GeneratedAt: s.schedule.clock.Now(),
	}

	totalBudget, totalSpent := decimal.Zero, decimal.Zero
	for i, p := range projects {
		ov := s.overview(p, spends[i])
		dash.Projects = append(dash.Projects, ov)

		t := &dash.Totals
		t.Projects++
		t.ByStatus[p.Status]++
		if ov.Spend.Degraded() {
			t.Degraded++
		}
		if ov.Schedule != nil {
			switch ov.Schedule.Status {
			case domain.ScheduleAhead:
				t.Ahead++
			case domain.ScheduleBehind:
				t.Behind++
			default:
				t.OnTrack++
			}
		}
		if p.Budget.Decimal().IsPositive() {
			totalBudget = totalBudget.Add(p.Budget.Decimal())
		}
		totalSpent = totalSpent.Add(ov.Spend.TotalSpent.Decimal())
	}

	dash.Totals.TotalBudget = totalBudget.InexactFloat64()
	dash.Totals.TotalSpent = totalSpent.InexactFloat64()
	dash.Totals.BudgetUtilization = domain.BudgetUtilization(dash.Totals.TotalSpent, dash.Totals.TotalBudget)
	return dash, nil
}

// Project builds the overview of one project.
func (s *DashboardService) Project(ctx context.Context, projectID string) (*domain.ProjectOverview, error) {
	ctx, span := dashboardTracer.Start(ctx, "DashboardService.Project")
	defer span.End()

	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	ov := s.overview(*p, s.costs.CalculateProjectSpent(ctx, p.ID))
	return &ov, nil
}

func (s *DashboardService) overview(p domain.Project, spend domain.ProjectSpend) domain.ProjectOverview {
	ov := domain.ProjectOverview{
		Project:           p,
		Spend:             spend,
		BudgetUtilization: s.costs.BudgetUtilization(spend.TotalSpent, p.Budget),
	}

	report, err := s.schedule.Evaluate(p)
	var validation *domain.ErrValidation
	switch {
	case err == nil:
		ov.Schedule = &report
	case errors.As(err, &validation):
		s.logger.Debug("project has no schedule",
			zap.String("project_id", p.ID),
			zap.String("field", validation.Field),
		)
	default:
		s.logger.Warn("schedule evaluation failed", zap.String("project_id", p.ID), zap.Error(err))
	}
	return ov
}
