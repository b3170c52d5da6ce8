package handler

import (
	"net/http"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/notify"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"go.uber.org/zap"
)

// BackendHealth reports the circuit breaker state of the FeedTrack API client.
type BackendHealth interface {
	BreakerState() string
}

type resourcesResponse struct {
	Ready     bool                    `json:"ready"`
	Breaker   string                  `json:"breaker,omitempty"`
	Resources []domain.ResourceStatus `json:"resources"`
	Metrics   *domain.MetricsSnapshot `json:"metrics"`
}

// ============================================================
// Operational
// ============================================================

func healthzHandler(backend BackendHealth, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "bfa-api", Status: "healthy", LastChecked: now},
		}
		if backend != nil {
			status := "healthy"
			switch backend.BreakerState() {
			case "half-open":
				status = "degraded"
			case "open":
				status = "unhealthy"
			}
			services = append(services, domain.ServiceHealth{
				Name: "feedtrack-api", Status: status, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

// readyzHandler reports ready once every collection has loaded at least once.
func readyzHandler(catalog *service.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !catalog.Ready() {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// ============================================================
// Recursos
// ============================================================

func resourcesStatus(catalog *service.Catalog, backend BackendHealth, metrics *observability.Metrics, resources []string) resourcesResponse {
	resp := resourcesResponse{
		Ready:     catalog.Ready(),
		Resources: catalog.Status(),
		Metrics:   metrics.Snapshot(resources),
	}
	if backend != nil {
		resp.Breaker = backend.BreakerState()
	}
	return resp
}

func resourcesStatusHandler(catalog *service.Catalog, backend BackendHealth, metrics *observability.Metrics, resources []string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/resources/status")
		defer span.End()

		writeJSON(w, http.StatusOK, resourcesStatus(catalog, backend, metrics, resources))
	}
}

// POST /v1/resources/reload refetches every collection. Failures are
// reported per collection in the body; the previous snapshots are kept.
func resourcesReloadHandler(catalog *service.Catalog, backend BackendHealth, metrics *observability.Metrics, resources []string, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/resources/reload")
		defer span.End()

		if err := catalog.WarmAll(ctx); err != nil {
			logger.Warn("reload finished with errors", zap.Error(err))
			span.RecordError(err)
		}
		writeJSON(w, http.StatusOK, resourcesStatus(catalog, backend, metrics, resources))
	}
}

// ============================================================
// Notificações
// ============================================================

func listNotificationsHandler(hub *notify.Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/notifications")
		defer span.End()

		writeJSON(w, http.StatusOK, hub.Recent(parseLimit(r, 20, 100)))
	}
}
