package service_test

import (
	"context"
	"sync"
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/auth"
	"github.com/atelierhq/studio-bfa-go/internal/port"
)

// --- Mocks ---

type mockFinancial struct {
	records map[string]*domain.FinancialRecord
	errs    map[string]error
}

func (m *mockFinancial) GetProjectFinancial(_ context.Context, projectID string) (*domain.FinancialRecord, error) {
	if err := m.errs[projectID]; err != nil {
		return nil, err
	}
	return m.records[projectID], nil
}

type mockUsage struct {
	logs map[string][]domain.MaterialUsageLog
	errs map[string]error
}

func (m *mockUsage) ListUsageLogs(_ context.Context, projectID string) ([]domain.MaterialUsageLog, error) {
	if err := m.errs[projectID]; err != nil {
		return nil, err
	}
	return m.logs[projectID], nil
}

type mockProjects struct {
	mu        sync.Mutex
	projects  []domain.Project
	byBearer  map[string][]domain.Project
	listErr   error
	listCalls int
	spentErrs map[string]error
	spent     map[string]float64
	created   []domain.Project
	deleted   []string
}

func (m *mockProjects) ListProjects(ctx context.Context) ([]domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.byBearer != nil {
		return m.byBearer[auth.BearerFromContext(ctx)], nil
	}
	return m.projects, nil
}

func (m *mockProjects) GetProject(_ context.Context, projectID string) (*domain.Project, error) {
	for _, p := range m.projects {
		if p.ID == projectID {
			p := p
			return &p, nil
		}
	}
	return nil, &domain.ErrNotFound{Resource: "projects", ID: projectID}
}

func (m *mockProjects) CreateProject(_ context.Context, p *domain.Project) (*domain.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := *p
	out.ID = "p-new"
	m.created = append(m.created, out)
	return &out, nil
}

func (m *mockProjects) UpdateProject(_ context.Context, p *domain.Project) (*domain.Project, error) {
	out := *p
	return &out, nil
}

func (m *mockProjects) DeleteProject(_ context.Context, projectID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, projectID)
	return nil
}

func (m *mockProjects) UpdateSpent(_ context.Context, projectID string, spent float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.spentErrs[projectID]; err != nil {
		return err
	}
	if m.spent == nil {
		m.spent = map[string]float64{}
	}
	m.spent[projectID] = spent
	return nil
}

type mockContracts struct {
	contracts []domain.Contract
}

func (m *mockContracts) ListByProject(_ context.Context, projectID string) ([]domain.Contract, error) {
	var out []domain.Contract
	for _, c := range m.contracts {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockCatalog struct {
	materials []domain.Material
	err       error
}

func (m *mockCatalog) ListMaterials(_ context.Context) ([]domain.Material, error) {
	return m.materials, m.err
}

// --- Fixtures ---

var fixedNow = time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC)

func fixedClock() port.Clock {
	return port.ClockFunc(func() time.Time { return fixedNow })
}

func expenses(amounts ...float64) *domain.FinancialRecord {
	rec := &domain.FinancialRecord{}
	for _, a := range amounts {
		rec.Expenses = append(rec.Expenses, domain.Expense{Amount: domain.NewAmount(a)})
	}
	return rec
}

func usage(qty, price float64, n int) []domain.MaterialUsageLog {
	logs := make([]domain.MaterialUsageLog, n)
	for i := range logs {
		logs[i] = domain.MaterialUsageLog{
			Quantity: domain.NewAmount(qty),
			Material: &domain.Material{UnitPrice: domain.NewAmount(price)},
		}
	}
	return logs
}

func date(s string) domain.Date {
	t, _ := time.Parse("2006-01-02", s)
	return domain.NewDate(t)
}
