package domain

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================
// Project spend (derived, never persisted by the BFA itself)
// ============================================================

// SourceStatus tells why a source contributed what it did.
type SourceStatus string

const (
	SourceOK     SourceStatus = "ok"
	SourceEmpty  SourceStatus = "empty"
	SourceFailed SourceStatus = "failed"
)

// SourceResult is the contribution of one spend source. A failed source
// still carries Amount 0 so totals stay computable.
type SourceResult struct {
	Amount Amount       `json:"amount"`
	Status SourceStatus `json:"status"`
	Error  string       `json:"error,omitempty"`
}

// Failed reports whether the source could not be fetched.
func (r SourceResult) Failed() bool {
	return r.Status == SourceFailed
}

// SpendBreakdown splits the total by source.
type SpendBreakdown struct {
	Financial Amount `json:"financial"`
	Materials Amount `json:"materials"`
}

// SpendSources carries the per-source outcome.
type SpendSources struct {
	Financial SourceResult `json:"financial"`
	Materials SourceResult `json:"materials"`
}

// ProjectSpend is the aggregate returned by the cost service. Amounts stay
// decimal so TotalSpent equals Breakdown.Financial + Breakdown.Materials
// exactly, on the wire too.
type ProjectSpend struct {
	ProjectID    string         `json:"project_id"`
	TotalSpent   Amount         `json:"total_spent"`
	Breakdown    SpendBreakdown `json:"breakdown"`
	Sources      SpendSources   `json:"sources"`
	CalculatedAt time.Time      `json:"calculated_at"`
}

// NewProjectSpend builds the aggregate with the total derived from the two
// source amounts.
func NewProjectSpend(projectID string, financial, materials SourceResult, at time.Time) ProjectSpend {
	return ProjectSpend{
		ProjectID:  projectID,
		TotalSpent: AmountFromDecimal(financial.Amount.Decimal().Add(materials.Amount.Decimal())),
		Breakdown: SpendBreakdown{
			Financial: financial.Amount,
			Materials: materials.Amount,
		},
		Sources: SpendSources{
			Financial: financial,
			Materials: materials,
		},
		CalculatedAt: at,
	}
}

// Degraded reports whether any source failed.
func (p ProjectSpend) Degraded() bool {
	return p.Sources.Financial.Failed() || p.Sources.Materials.Failed()
}

// SpendRecompute is the result of the recompute-and-persist variant.
type SpendRecompute struct {
	Spend        ProjectSpend `json:"spend"`
	Persisted    bool         `json:"persisted"`
	PersistError string       `json:"persist_error,omitempty"`
}

// BudgetUtilization returns spent as a percentage of budget, computed in
// decimal. A zero, negative or non-finite budget yields 0.
func BudgetUtilization(totalSpent, budget float64) float64 {
	if !(budget > 0) || math.IsInf(budget, 0) || math.IsNaN(totalSpent) || math.IsInf(totalSpent, 0) {
		return 0
	}
	return decimal.NewFromFloat(totalSpent).
		Div(decimal.NewFromFloat(budget)).
		Mul(decimal.NewFromInt(100)).
		InexactFloat64()
}
