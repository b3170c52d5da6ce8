package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/resource"
)

// --- Tests ---

func TestCustomerCreate_ValidationSendsNoRequest(t *testing.T) {
	backend := newMockBackend()
	cat := newCatalog(backend, &recordingNotifier{})

	_, err := cat.Customers.Create(context.Background(), domain.NewCustomer{
		Person: domain.Person{Name: "Novo", Email: "novo@email.com"},
	})

	var v *domain.ErrValidation
	if !errors.As(err, &v) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if v.Message != "Nome, email e um produto inicial são obrigatórios." {
		t.Errorf("unexpected message %q", v.Message)
	}
	if n := backend.count("CreateCustomer"); n != 0 {
		t.Errorf("expected no backend call, got %d", n)
	}
}

func TestCustomerCreate_AppendsServerEntity(t *testing.T) {
	backend := newMockBackend()
	notes := &recordingNotifier{}
	cat := newCatalog(backend, notes)
	ctx := context.Background()

	if err := cat.Customers.Warm(ctx); err != nil {
		t.Fatalf("warm: %v", err)
	}
	created, err := cat.Customers.Create(ctx, domain.NewCustomer{
		Person:     domain.Person{Name: "Gabriela Nunes", Email: "gabi@email.com"},
		ProductIDs: []string{"prod-003"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || len(created.Products) != 1 {
		t.Fatalf("expected server entity with one product, got %+v", created)
	}
	if got := len(cat.Customers.List()); got != 10 {
		t.Errorf("expected 10 cached customers, got %d", got)
	}
	if backend.count("ListCustomers") != 1 {
		t.Errorf("patch policy should not reload, got %d loads", backend.count("ListCustomers"))
	}
	if msg := notes.last().Message; msg != "Cliente cadastrado com sucesso!" {
		t.Errorf("unexpected notification %q", msg)
	}
}

func TestCustomerCreate_EmptyResponseResyncs(t *testing.T) {
	backend := newMockBackend()
	backend.emptyWrites = true
	cat := newCatalog(backend, &recordingNotifier{})
	ctx := context.Background()

	_ = cat.Customers.Warm(ctx)
	created, err := cat.Customers.Create(ctx, domain.NewCustomer{
		Person:     domain.Person{Name: "Helena", Email: "Helena@Email.com"},
		ProductIDs: []string{"prod-001"},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created == nil || created.ID == "" || created.Person.Name != "Helena" {
		t.Errorf("expected the reloaded entity to be returned, got %+v", created)
	}
	if backend.count("ListCustomers") != 2 {
		t.Errorf("expected a resync, got %d loads", backend.count("ListCustomers"))
	}
	if got := len(cat.Customers.List()); got != 10 {
		t.Errorf("expected 10 customers after resync, got %d", got)
	}
}

func TestCustomerCreate_WriteFailureNotifies(t *testing.T) {
	backend := newMockBackend()
	notes := &recordingNotifier{}
	cat := newCatalog(backend, notes)
	ctx := context.Background()
	_ = cat.Customers.Warm(ctx)

	backend.writeErr = &domain.ErrExternalService{Service: "feedtrack-api", StatusCode: 500}
	_, err := cat.Customers.Create(ctx, domain.NewCustomer{
		Person:     domain.Person{Name: "Igor", Email: "igor@email.com"},
		ProductIDs: []string{"prod-001"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if notes.last().Level != domain.NotificationError {
		t.Errorf("expected error notification, got %+v", notes.last())
	}
	if got := len(cat.Customers.List()); got != 9 {
		t.Errorf("cache must be untouched, got %d", got)
	}
}

func TestCustomerDeactivate_UnknownIDIsNoop(t *testing.T) {
	backend := newMockBackend()
	cat := newCatalog(backend, &recordingNotifier{})
	_ = cat.Customers.Warm(context.Background())

	got, err := cat.Customers.Deactivate(context.Background(), "cus-999")
	if err != nil || got != nil {
		t.Fatalf("expected nil, nil; got %v, %v", got, err)
	}
	if backend.count("UpdateCustomer") != 0 {
		t.Error("unknown id must not reach the backend")
	}
}

func TestCustomerDeactivateAndReactivate(t *testing.T) {
	backend := newMockBackend()
	notes := &recordingNotifier{}
	cat := newCatalog(backend, notes)
	ctx := context.Background()
	_ = cat.Customers.Warm(ctx)

	off, err := cat.Customers.Deactivate(ctx, "cus-001")
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if off.Status != domain.CustomerInactive || off.DeletedAt == nil {
		t.Fatalf("expected INACTIVE with deletedAt, got %+v", off)
	}
	if len(cat.Customers.ListInactive()) != 1 || len(cat.Customers.ListActive()) != 8 {
		t.Errorf("unexpected partition: %d inactive, %d active",
			len(cat.Customers.ListInactive()), len(cat.Customers.ListActive()))
	}

	on, err := cat.Customers.Reactivate(ctx, "cus-001")
	if err != nil {
		t.Fatalf("reactivate: %v", err)
	}
	if on.Status != domain.CustomerActive || on.DeletedAt != nil {
		t.Errorf("expected ACTIVE without deletedAt, got %+v", on)
	}
	if msg := notes.last().Message; msg != `Cliente "Maria Silva" foi reativado.` {
		t.Errorf("unexpected notification %q", msg)
	}
}

func TestCustomerLoadFailure_KeepsSnapshot(t *testing.T) {
	backend := newMockBackend()
	cat := newCatalog(backend, &recordingNotifier{})
	ctx := context.Background()
	_ = cat.Customers.Warm(ctx)

	backend.listErr = errors.New("connection refused")
	if err := cat.Customers.Warm(ctx); err == nil {
		t.Fatal("expected load error")
	}
	if got := len(cat.Customers.List()); got != 9 {
		t.Errorf("expected previous snapshot of 9, got %d", got)
	}
	if st := cat.Customers.Collection().State(); st != resource.StateError {
		t.Errorf("expected error state, got %s", st)
	}
}

func TestCustomerAssociation_Resyncs(t *testing.T) {
	backend := newMockBackend()
	notes := &recordingNotifier{}
	cat := newCatalog(backend, notes)
	ctx := context.Background()
	_ = cat.Customers.Warm(ctx)

	c, err := cat.Customers.AddProducts(ctx, "cus-002", []string{"prod-001"})
	if err != nil {
		t.Fatalf("add products: %v", err)
	}
	if len(c.Products) != 2 {
		t.Errorf("expected 2 products after add, got %d", len(c.Products))
	}
	if backend.count("ListCustomers") != 2 {
		t.Errorf("association must resync, got %d loads", backend.count("ListCustomers"))
	}
	if msg := notes.last().Message; msg != "Novos produtos adicionados ao cliente." {
		t.Errorf("unexpected notification %q", msg)
	}

	c, err = cat.Customers.ReplaceProduct(ctx, "cus-002", "prod-001", "prod-006")
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if !c.HasProduct("prod-006") || c.HasProduct("prod-001") {
		t.Errorf("replace not applied: %+v", c.Products)
	}

	if _, err := cat.Customers.ReplaceProduct(ctx, "cus-002", "prod-003", "prod-003"); err == nil {
		t.Error("expected validation error for identical replacement")
	}
}

func TestCustomerSearch(t *testing.T) {
	cat := newCatalog(newMockBackend(), &recordingNotifier{})
	_ = cat.Customers.Warm(context.Background())

	if got := cat.Customers.Search("SILVA"); len(got) != 2 {
		t.Errorf("expected 2 matches for silva, got %d", len(got))
	}
	if got := cat.Customers.Search("carlos.pereira@"); len(got) != 1 {
		t.Errorf("expected email match, got %d", len(got))
	}
	if got := cat.Customers.Search(""); len(got) != 9 {
		t.Errorf("empty term should list all active, got %d", len(got))
	}
}
