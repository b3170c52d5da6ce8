package domain

import "time"

// ============================================================
// Health & Status API Responses
// ============================================================

// HealthStatus is returned by GET /healthz.
type HealthStatus struct {
	Status   string          `json:"status"` // healthy, degraded, unhealthy
	Services []ServiceHealth `json:"services"`
}

// ServiceHealth represents the health of an individual dependency.
type ServiceHealth struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	LatencyMs   int64  `json:"latencyMs"`
	LastChecked string `json:"lastChecked"`
}

// ResourceStatus reports the state of one cached collection.
type ResourceStatus struct {
	Name      string     `json:"name"`
	State     string     `json:"state"`
	Count     int        `json:"count"`
	LastError string     `json:"lastError,omitempty"`
	LoadedAt  *time.Time `json:"loadedAt,omitempty"`
}

// MetricsSnapshot is returned by GET /v1/resources/status alongside the
// collection states.
type MetricsSnapshot struct {
	BackendCalls   int64 `json:"backendCalls"`
	BackendErrors  int64 `json:"backendErrors"`
	Notifications  int64 `json:"notifications"`
	LoginsSuccess  int64 `json:"loginsSuccess"`
	LoginsRejected int64 `json:"loginsRejected"`
}

// ============================================================
// Generic API Response wrappers
// ============================================================

// Page wraps one page of an in-memory filtered list. Pages are 1-based.
type Page[T any] struct {
	Items      []T  `json:"items"`
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasMore    bool `json:"hasMore"`
}

// SuccessResponse wraps a successful single-entity response.
type SuccessResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
