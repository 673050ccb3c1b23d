package domain

import "time"

// ============================================================
// Schedule reconciliation
// ============================================================

// ScheduleStatus compares recorded progress against elapsed time.
type ScheduleStatus string

const (
	ScheduleAhead   ScheduleStatus = "ahead"
	ScheduleOnTrack ScheduleStatus = "onTrack"
	ScheduleBehind  ScheduleStatus = "behind"
)

// ScheduleThreshold is the tolerance, in percentage points, inside which a
// project counts as on track. The boundary itself is on track.
const ScheduleThreshold = 10.0

// ScheduleReport is the reconciliation of one project.
type ScheduleReport struct {
	ProjectID      string         `json:"project_id"`
	ActualProgress Progress       `json:"actual_progress"`
	TimeProgress   float64        `json:"time_progress"`
	ProgressDiff   float64        `json:"progress_diff"`
	Status         ScheduleStatus `json:"status"`
	EvaluatedAt    time.Time      `json:"evaluated_at"`
}

// TimeProgress is the share of the scheduled duration elapsed at now,
// as a percentage clamped to [0, 100].
func TimeProgress(start, end, now time.Time) float64 {
	if !now.After(start) {
		return 0
	}
	if !now.Before(end) {
		return 100
	}
	total := end.Sub(start)
	if total <= 0 {
		return 100
	}
	p := float64(now.Sub(start)) / float64(total) * 100
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// ClassifySchedule applies the threshold to actual minus time progress.
func ClassifySchedule(actualProgress, timeProgress float64) ScheduleStatus {
	diff := actualProgress - timeProgress
	switch {
	case diff > ScheduleThreshold:
		return ScheduleAhead
	case diff < -ScheduleThreshold:
		return ScheduleBehind
	default:
		return ScheduleOnTrack
	}
}

// Reconcile evaluates a project at now. Both dates are required.
func Reconcile(p Project, now time.Time) (ScheduleReport, error) {
	if p.StartDate.IsZero() {
		return ScheduleReport{}, &ErrValidation{Field: "start_date", Message: "required for schedule"}
	}
	if p.EndDate.IsZero() {
		return ScheduleReport{}, &ErrValidation{Field: "end_date", Message: "required for schedule"}
	}

	tp := TimeProgress(p.StartDate.Time, p.EndDate.Time, now)
	return ScheduleReport{
		ProjectID:      p.ID,
		ActualProgress: p.ActualProgress,
		TimeProgress:   tp,
		ProgressDiff:   float64(p.ActualProgress) - tp,
		Status:         ClassifySchedule(float64(p.ActualProgress), tp),
		EvaluatedAt:    now,
	}, nil
}
