// Package domain defines the core entities of the studio BFA.
// These models mirror the backend resources the dashboards consume,
// plus the aggregates the BFA derives from them.
package domain

import "github.com/shopspring/decimal"

// ============================================================
// Projects
// ============================================================

// ProjectStatus is the lifecycle stage of a project.
type ProjectStatus string

const (
	StatusPlanning   ProjectStatus = "Planning"
	StatusInProgress ProjectStatus = "InProgress"
	StatusCompleted  ProjectStatus = "Completed"
)

// Valid reports whether s is a known status.
func (s ProjectStatus) Valid() bool {
	switch s {
	case StatusPlanning, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Project is an interior-design job. The backend owns it; the BFA holds a
// transient copy.
type Project struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	Client         string        `json:"client"`
	Description    string        `json:"description,omitempty"`
	Budget         Amount        `json:"budget"`
	Spent          Amount        `json:"spent"`
	ActualProgress Progress      `json:"actual_progress"` // 0-100, set by staff
	StartDate      Date          `json:"start_date"`
	EndDate        Date          `json:"end_date"`
	Status         ProjectStatus `json:"status"`
}

// Validate checks a project before it is created or updated.
func (p *Project) Validate() error {
	if p.Name == "" {
		return &ErrValidation{Field: "name", Message: "required"}
	}
	if p.Budget.Decimal().IsNegative() {
		return &ErrValidation{Field: "budget", Message: "must not be negative"}
	}
	if p.ActualProgress < 0 || p.ActualProgress > 100 {
		return &ErrValidation{Field: "actual_progress", Message: "must be between 0 and 100"}
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate.Time) {
		return &ErrValidation{Field: "end_date", Message: "must not be before start_date"}
	}
	if p.Status == "" {
		p.Status = StatusPlanning
	}
	if !p.Status.Valid() {
		return &ErrValidation{Field: "status", Message: "must be one of Planning, InProgress, Completed"}
	}
	return nil
}

// ProjectsResponse is the backend envelope for GET /projects.
type ProjectsResponse struct {
	Success  bool      `json:"success"`
	Projects []Project `json:"projects"`
	Message  string    `json:"message,omitempty"`
}

// ProjectResponse is the backend envelope for single-project calls.
type ProjectResponse struct {
	Success bool     `json:"success"`
	Project *Project `json:"project"`
	Message string   `json:"message,omitempty"`
}

// SpentUpdate is the body of PUT /projects/:id/spent.
type SpentUpdate struct {
	Spent float64 `json:"spent"`
}

// ============================================================
// Financial records
// ============================================================

// Expense is one recorded cost against a project.
type Expense struct {
	ID          string `json:"id,omitempty"`
	Category    string `json:"category"`
	Amount      Amount `json:"amount"`
	Description string `json:"description,omitempty"`
	Date        Date   `json:"date"`
}

// FinancialRecord groups the expenses of a project.
type FinancialRecord struct {
	ProjectID string    `json:"project_id"`
	Expenses  []Expense `json:"expenses"`
}

// FinancialResponse is the backend envelope for GET /financial/projects/:id.
type FinancialResponse struct {
	Success bool             `json:"success"`
	Project *FinancialRecord `json:"project"`
	Message string           `json:"message,omitempty"`
}

// ExpenseTotal sums the expense amounts. Negative entries are ignored.
func (f *FinancialRecord) ExpenseTotal() decimal.Decimal {
	total := decimal.Zero
	if f == nil {
		return total
	}
	for _, e := range f.Expenses {
		if e.Amount.Decimal().IsPositive() {
			total = total.Add(e.Amount.Decimal())
		}
	}
	return total
}

// ============================================================
// Materials
// ============================================================

// Material is a catalog item with a unit price.
type Material struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Unit      string `json:"unit,omitempty"`
	UnitPrice Amount `json:"unit_price"`
	Stock     Amount `json:"stock"`
}

// MaterialUsageLog records a quantity of a material consumed by a project.
type MaterialUsageLog struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	MaterialID string    `json:"material_id"`
	Quantity   Amount    `json:"quantity"`
	Material   *Material `json:"material"`
	UsedAt     Date      `json:"used_at"`
}

// Cost is quantity times unit price; zero when either is missing or negative.
func (l MaterialUsageLog) Cost() decimal.Decimal {
	if l.Material == nil {
		return decimal.Zero
	}
	q, p := l.Quantity.Decimal(), l.Material.UnitPrice.Decimal()
	if !q.IsPositive() || !p.IsPositive() {
		return decimal.Zero
	}
	return q.Mul(p)
}

// UsageLogsResponse is the backend envelope for GET /materials/usage-logs.
type UsageLogsResponse struct {
	Success bool               `json:"success"`
	Logs    []MaterialUsageLog `json:"logs"`
	Message string             `json:"message,omitempty"`
}

// MaterialsResponse is the backend envelope for GET /materials.
type MaterialsResponse struct {
	Success   bool       `json:"success"`
	Materials []Material `json:"materials"`
	Message   string     `json:"message,omitempty"`
}

// UsageTotal sums the cost of every log.
func UsageTotal(logs []MaterialUsageLog) decimal.Decimal {
	total := decimal.Zero
	for _, l := range logs {
		total = total.Add(l.Cost())
	}
	return total
}

// ============================================================
// Contracts
// ============================================================

// Contract is a signed agreement attached to a project.
type Contract struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
	Title     string `json:"title"`
	Value     Amount `json:"value"`
	Status    string `json:"status"`
	SignedAt  Date   `json:"signed_at"`
}

// ContractsResponse is the backend envelope for GET /contracts.
type ContractsResponse struct {
	Success   bool       `json:"success"`
	Contracts []Contract `json:"contracts"`
	Message   string     `json:"message,omitempty"`
}
