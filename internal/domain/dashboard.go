package domain

import "time"

// ============================================================
// Dashboard
// ============================================================

// ProjectOverview is one card of the dashboard. Schedule is nil when the
// project has no start or end date.
type ProjectOverview struct {
	Project           Project         `json:"project"`
	Spend             ProjectSpend    `json:"spend"`
	BudgetUtilization float64         `json:"budget_utilization"`
	Schedule          *ScheduleReport `json:"schedule,omitempty"`
}

// DashboardTotals rolls up every project.
type DashboardTotals struct {
	Projects          int                   `json:"projects"`
	TotalBudget       float64               `json:"total_budget"`
	TotalSpent        float64               `json:"total_spent"`
	BudgetUtilization float64               `json:"budget_utilization"`
	Ahead             int                   `json:"ahead"`
	OnTrack           int                   `json:"on_track"`
	Behind            int                   `json:"behind"`
	Degraded          int                   `json:"degraded"`
	ByStatus          map[ProjectStatus]int `json:"by_status"`
}

// Dashboard is returned by GET /v1/dashboard.
type Dashboard struct {
	Projects    []ProjectOverview `json:"projects"`
	Totals      DashboardTotals   `json:"totals"`
	GeneratedAt time.Time         `json:"generated_at"`
}
