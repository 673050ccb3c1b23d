package domain_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
)

func TestBudgetUtilization(t *testing.T) {
	if got := domain.BudgetUtilization(250, 1000); got != 25 {
		t.Errorf("expected 25, got %f", got)
	}
}

func TestBudgetUtilization_ZeroBudget(t *testing.T) {
	for _, budget := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		got := domain.BudgetUtilization(500, budget)
		if got != 0 {
			t.Errorf("budget=%v: expected 0, got %f", budget, got)
		}
	}
}

func TestAmount_LenientDecoding(t *testing.T) {
	var body struct {
		Expenses []domain.Expense `json:"expenses"`
	}
	raw := `{"expenses":[
		{"amount": 100},
		{"amount": "250.5"},
		{"amount": null},
		{"amount": "n/a"},
		{"amount": true},
		{"category": "no amount"}
	]}`
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("expected lenient decode, got %v", err)
	}

	rec := domain.FinancialRecord{Expenses: body.Expenses}
	if got := rec.ExpenseTotal().InexactFloat64(); got != 350.5 {
		t.Errorf("expected 350.5, got %f", got)
	}
}

func TestAmount_NonFiniteIsZero(t *testing.T) {
	var body struct {
		Expenses []domain.Expense `json:"expenses"`
	}
	raw := `{"expenses":[{"amount": "1e400"}, {"amount": -1e400}, {"amount": 12.5}]}`
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		t.Fatalf("expected lenient decode, got %v", err)
	}

	for i, e := range body.Expenses[:2] {
		if !e.Amount.IsZero() {
			t.Errorf("expense %d: expected overflow to decode as 0, got %s", i, e.Amount.Decimal())
		}
	}
	rec := domain.FinancialRecord{Expenses: body.Expenses}
	if got := rec.ExpenseTotal().InexactFloat64(); got != 12.5 || math.IsInf(got, 0) {
		t.Errorf("expected 12.5, got %f", got)
	}

	if !domain.NewAmount(math.Inf(1)).IsZero() || !domain.NewAmount(math.NaN()).IsZero() {
		t.Error("expected non-finite floats to build a zero amount")
	}
}

func TestProgress_LenientDecoding(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.Progress
	}{
		{`55`, 55},
		{`55.5`, 55.5},
		{`"55"`, 55},
		{`null`, 0},
		{`"n/a"`, 0},
		{`-5`, 0},
		{`120`, 100},
		{`"1e400"`, 0},
	}
	for _, tt := range tests {
		var p domain.Project
		if err := json.Unmarshal([]byte(`{"name":"Loft","actual_progress":`+tt.raw+`}`), &p); err != nil {
			t.Fatalf("%s: expected lenient decode, got %v", tt.raw, err)
		}
		if p.ActualProgress != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.raw, tt.want, p.ActualProgress)
		}
	}
}

func TestFinancialRecord_NilAndNegative(t *testing.T) {
	var nilRec *domain.FinancialRecord
	if !nilRec.ExpenseTotal().IsZero() {
		t.Error("expected zero total for nil record")
	}

	rec := &domain.FinancialRecord{Expenses: []domain.Expense{
		{Amount: domain.NewAmount(-40)},
		{Amount: domain.NewAmount(10)},
	}}
	if got := rec.ExpenseTotal().InexactFloat64(); got != 10 {
		t.Errorf("expected 10, got %f", got)
	}
}

func TestUsageTotal(t *testing.T) {
	logs := []domain.MaterialUsageLog{
		{Quantity: domain.NewAmount(3), Material: &domain.Material{UnitPrice: domain.NewAmount(40)}},
		{Quantity: domain.NewAmount(2)},
		{Quantity: domain.NewAmount(0), Material: &domain.Material{UnitPrice: domain.NewAmount(99)}},
	}
	if got := domain.UsageTotal(logs).InexactFloat64(); got != 120 {
		t.Errorf("expected 120, got %f", got)
	}
}

func TestDate_Formats(t *testing.T) {
	var p domain.Project
	raw := `{"start_date":"2025-03-01","end_date":"2025-03-11T12:00:00Z"}`
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.StartDate.IsZero() || p.StartDate.Day() != 1 {
		t.Errorf("expected start date parsed, got %v", p.StartDate)
	}
	if p.EndDate.Hour() != 12 {
		t.Errorf("expected end hour 12, got %d", p.EndDate.Hour())
	}

	out, err := json.Marshal(p.StartDate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != `"2025-03-01"` {
		t.Errorf("expected date-only encoding, got %s", out)
	}
}

func TestProject_Validate(t *testing.T) {
	p := &domain.Project{Name: "Loft", ActualProgress: 120}
	if err := p.Validate(); err == nil {
		t.Fatal("expected progress validation error")
	}

	p = &domain.Project{Name: "Loft", ActualProgress: 20}
	if err := p.Validate(); err != nil {
		t.Fatalf("expected valid project, got %v", err)
	}
	if p.Status != domain.StatusPlanning {
		t.Errorf("expected default status Planning, got %s", p.Status)
	}

	p = &domain.Project{Name: "Loft", Status: "Archived"}
	if err := p.Validate(); err == nil {
		t.Fatal("expected status validation error")
	}
}
