package service_test

import (
	"context"
	"sync"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/mockbackend"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

// mockBackend wraps the in-memory store and lets tests count calls and
// inject failures.
type mockBackend struct {
	*mockbackend.Store

	mu          sync.Mutex
	calls       map[string]int
	listErr     error
	writeErr    error
	emptyWrites bool
}

func newMockBackend() *mockBackend {
	return &mockBackend{Store: mockbackend.Seeded(), calls: make(map[string]int)}
}

func (m *mockBackend) record(name string) {
	m.mu.Lock()
	m.calls[name]++
	m.mu.Unlock()
}

func (m *mockBackend) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

func (m *mockBackend) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	m.record("ListCustomers")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.Store.ListCustomers(ctx)
}

func (m *mockBackend) CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	m.record("CreateCustomer")
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	c, err := m.Store.CreateCustomer(ctx, in)
	if m.emptyWrites {
		return nil, err
	}
	return c, err
}

func (m *mockBackend) UpdateCustomer(ctx context.Context, id string, in domain.CustomerUpdate) (*domain.Customer, error) {
	m.record("UpdateCustomer")
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	return m.Store.UpdateCustomer(ctx, id, in)
}

func (m *mockBackend) ChangeCustomerProducts(ctx context.Context, id string, action domain.AssociationAction) error {
	m.record("ChangeCustomerProducts")
	if m.writeErr != nil {
		return m.writeErr
	}
	return m.Store.ChangeCustomerProducts(ctx, id, action)
}

func (m *mockBackend) ListForms(ctx context.Context) ([]domain.Form, error) {
	m.record("ListForms")
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.Store.ListForms(ctx)
}

func (m *mockBackend) CreateCampaign(ctx context.Context, in domain.NewCampaign) (*domain.Campaign, error) {
	m.record("CreateCampaign")
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	c, err := m.Store.CreateCampaign(ctx, in)
	if m.emptyWrites {
		return nil, err
	}
	return c, err
}

func (m *mockBackend) UpdateCampaign(ctx context.Context, id string, in domain.CampaignUpdate) (*domain.Campaign, error) {
	m.record("UpdateCampaign")
	return m.Store.UpdateCampaign(ctx, id, in)
}

func (m *mockBackend) DeleteCampaign(ctx context.Context, id string) error {
	m.record("DeleteCampaign")
	return m.Store.DeleteCampaign(ctx, id)
}

func (m *mockBackend) CreateFeedback(ctx context.Context, f domain.Feedback) (*domain.Feedback, error) {
	m.record("CreateFeedback")
	if m.writeErr != nil {
		return nil, m.writeErr
	}
	return m.Store.CreateFeedback(ctx, f)
}

type recordingNotifier struct {
	mu    sync.Mutex
	notes []domain.Notification
}

func (r *recordingNotifier) Notify(n domain.Notification) {
	r.mu.Lock()
	r.notes = append(r.notes, n)
	r.mu.Unlock()
}

func (r *recordingNotifier) last() domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notes) == 0 {
		return domain.Notification{}
	}
	return r.notes[len(r.notes)-1]
}

func (r *recordingNotifier) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

func newCatalog(backend *mockBackend, notifier *recordingNotifier) *service.Catalog {
	return service.NewCatalog(backend, notifier, service.DefaultFeedbackPageSize, observability.NewMetrics(), zap.NewNop())
}
