package observability

import (
	"time"

	"github.com/atelierhq/studio-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the BFA.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration   *prometheus.HistogramVec
	externalErrors    *prometheus.CounterVec
	cacheHits         *prometheus.CounterVec
	cacheMisses       *prometheus.CounterVec
	spendCalculations *prometheus.CounterVec
	spendPersists     *prometheus.CounterVec
	scheduleStatuses  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bfa_request_duration_seconds",
				Help:    "Duration of requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_external_errors_total",
				Help: "Total errors from backend resources.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		spendCalculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_spend_calculations_total",
				Help: "Project spend calculations by outcome (complete, degraded).",
			},
			[]string{"outcome"},
		),
		spendPersists: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_spend_persist_total",
				Help: "Attempts to store a recomputed spend total, by status.",
			},
			[]string{"status"},
		),
		scheduleStatuses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bfa_schedule_evaluations_total",
				Help: "Schedule reconciliations by resulting status.",
			},
			[]string{"status"},
		),
	}
}

// RecordRequestDuration records the duration of an operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// RecordSpend counts one spend calculation.
func (m *Metrics) RecordSpend(degraded bool) {
	if degraded {
		m.spendCalculations.WithLabelValues("degraded").Inc()
		return
	}
	m.spendCalculations.WithLabelValues("complete").Inc()
}

// RecordPersist counts one attempt to store a spend total.
func (m *Metrics) RecordPersist(ok bool) {
	if ok {
		m.spendPersists.WithLabelValues("success").Inc()
		return
	}
	m.spendPersists.WithLabelValues("error").Inc()
}

// RecordSchedule counts one schedule classification.
func (m *Metrics) RecordSchedule(status domain.ScheduleStatus) {
	m.scheduleStatuses.WithLabelValues(string(status)).Inc()
}

// GetSpendSnapshot returns cumulative spend metrics for GET /v1/metrics/spend.
func (m *Metrics) GetSpendSnapshot() *domain.SpendMetrics {
	complete := getCounterValue(m.spendCalculations, "complete")
	degraded := getCounterValue(m.spendCalculations, "degraded")
	hits := getCounterValue(m.cacheHits, "projects")
	misses := getCounterValue(m.cacheMisses, "projects")

	total := complete + degraded
	degradedRate := float64(0)
	cacheHitRate := float64(0)
	if total > 0 {
		degradedRate = degraded / total
	}
	if hits+misses > 0 {
		cacheHitRate = hits / (hits + misses)
	}

	return &domain.SpendMetrics{
		Calculations:    int64(total),
		Degraded:        int64(degraded),
		DegradedRate:    degradedRate,
		PersistSuccess:  int64(getCounterValue(m.spendPersists, "success")),
		PersistFailures: int64(getCounterValue(m.spendPersists, "error")),
		CacheHitRate:    cacheHitRate,
		Period:          "all_time",
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
