package domain

// ============================================================
// Health & Metrics API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LastChecked string `json:"lastChecked"`
}

// SpendMetrics is returned by GET /v1/metrics/spend.
type SpendMetrics struct {
	Calculations    int64   `json:"calculations"`
	Degraded        int64   `json:"degraded"`
	DegradedRate    float64 `json:"degradedRate"`
	PersistSuccess  int64   `json:"persistSuccess"`
	PersistFailures int64   `json:"persistFailures"`
	CacheHitRate    float64 `json:"cacheHitRate"`
	Period          string  `json:"period"`
}
