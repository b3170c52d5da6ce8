package observability_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"

	"go.uber.org/zap"
)

func TestSnapshot_SumsCounters(t *testing.T) {
	m := observability.NewMetrics()
	m.IncrBackendCall("customers")
	m.IncrBackendCall("customers")
	m.IncrBackendCall("feedbacks")
	m.IncrBackendError("feedbacks")
	m.IncrNotification("success")
	m.IncrNotification("error")
	m.IncrLogin("success")
	m.IncrLogin("rejected")
	m.IncrLogin("rejected")
	m.RecordRequestDuration("customers.list", 15*time.Millisecond)

	s := m.Snapshot([]string{"customers", "feedbacks"})

	if s.BackendCalls != 3 {
		t.Errorf("expected 3 backend calls, got %d", s.BackendCalls)
	}
	if s.BackendErrors != 1 {
		t.Errorf("expected 1 backend error, got %d", s.BackendErrors)
	}
	if s.Notifications != 2 {
		t.Errorf("expected 2 notifications, got %d", s.Notifications)
	}
	if s.LoginsSuccess != 1 || s.LoginsRejected != 2 {
		t.Errorf("unexpected logins %+v", s)
	}
}

func TestNewMetrics_Twice(t *testing.T) {
	// Private registries must not collide.
	observability.NewMetrics()
	observability.NewMetrics()
}

func TestInitTracer_NoEndpoint(t *testing.T) {
	shutdown, err := observability.InitTracer("", "feedtrack-test")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}

func TestZapLoggerMiddleware_PassesThrough(t *testing.T) {
	h := observability.ZapLoggerMiddleware(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

	if rec.Code != http.StatusTeapot {
		t.Errorf("expected 418, got %d", rec.Code)
	}
}
