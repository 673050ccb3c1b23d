package service

import (
	"context"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"
	"github.com/atelierhq/studio-bfa-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var scheduleTracer = otel.Tracer("service/schedule")

// ScheduleService reconciles recorded progress with elapsed time.
type ScheduleService struct {
	projects port.ProjectStore
	clock    port.Clock
	metrics  *observability.Metrics
}

// NewScheduleService creates the schedule service. A nil clock uses time.Now.
func NewScheduleService(projects port.ProjectStore, clock port.Clock, metrics *observability.Metrics) *ScheduleService {
	if clock == nil {
		clock = port.ClockFunc(time.Now)
	}
	return &ScheduleService{projects: projects, clock: clock, metrics: metrics}
}

// Evaluate classifies an already loaded project.
func (s *ScheduleService) Evaluate(p domain.Project) (domain.ScheduleReport, error) {
	report, err := domain.Reconcile(p, s.clock.Now())
	if err != nil {
		return report, err
	}
	s.metrics.RecordSchedule(report.Status)
	return report, nil
}

// ProjectSchedule loads a project and classifies it.
func (s *ScheduleService) ProjectSchedule(ctx context.Context, projectID string) (*domain.ScheduleReport, error) {
	ctx, span := scheduleTracer.Start(ctx, "ScheduleService.ProjectSchedule")
	defer span.End()
	span.SetAttributes(attribute.String("project.id", projectID))

	p, err := s.projects.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	report, err := s.Evaluate(*p)
	if err != nil {
		return nil, err
	}
	return &report, nil
}
