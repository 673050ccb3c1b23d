package observability_test

import (
	"testing"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/atelierhq/studio-bfa-go/internal/infra/observability"
)

func TestSpendSnapshot(t *testing.T) {
	m := observability.NewMetrics()

	m.RecordSpend(false)
	m.RecordSpend(false)
	m.RecordSpend(false)
	m.RecordSpend(true)
	m.RecordPersist(true)
	m.RecordPersist(false)
	m.IncrCacheHit("projects")
	m.IncrCacheMiss("projects")
	m.RecordSchedule(domain.ScheduleAhead)

	snap := m.GetSpendSnapshot()
	if snap.Calculations != 4 {
		t.Errorf("expected 4 calculations, got %d", snap.Calculations)
	}
	if snap.Degraded != 1 || snap.DegradedRate != 0.25 {
		t.Errorf("expected 1 degraded at 0.25, got %d at %f", snap.Degraded, snap.DegradedRate)
	}
	if snap.PersistSuccess != 1 || snap.PersistFailures != 1 {
		t.Errorf("expected 1/1 persists, got %d/%d", snap.PersistSuccess, snap.PersistFailures)
	}
	if snap.CacheHitRate != 0.5 {
		t.Errorf("expected cache hit rate 0.5, got %f", snap.CacheHitRate)
	}
}

func TestSpendSnapshot_Empty(t *testing.T) {
	snap := observability.NewMetrics().GetSpendSnapshot()
	if snap.Calculations != 0 || snap.DegradedRate != 0 || snap.CacheHitRate != 0 {
		t.Errorf("expected zeroed snapshot, got %+v", snap)
	}
}
