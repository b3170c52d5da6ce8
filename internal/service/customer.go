package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/port"
	"github.com/equipe-feedtrack/feedtrack/internal/resource"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var customerTracer = otel.Tracer("service/customer")

// CustomerService owns the customer collection.
type CustomerService struct {
	backend   port.CustomerBackend
	customers *resource.Collection[domain.Customer]
	notifier  port.Notifier
	logger    *zap.Logger
	now       func() time.Time
}

// NewCustomerService creates the customer service. Customers follow the
// patch policy; association changes always resync.
func NewCustomerService(backend port.CustomerBackend, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		backend: backend,
		customers: resource.New("customers", backend.ListCustomers,
			resource.WithPolicy(resource.PolicyPatch),
			resource.WithMessages(resource.Messages{
				LoadFailed:   "Não foi possível carregar os clientes.",
				Created:      "Cliente cadastrado com sucesso!",
				CreateFailed: "Não foi possível cadastrar o cliente.",
				Updated:      "Cliente atualizado.",
				UpdateFailed: "Não foi possível atualizar o cliente.",
				Deactivated:  "Cliente inativado.",
			}),
			resource.WithNotifier(notifier),
			resource.WithMetrics(metrics),
			resource.WithLogger(logger),
		),
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Collection exposes the cache for status reporting.
func (s *CustomerService) Collection() *resource.Collection[domain.Customer] { return s.customers }

// Warm loads the collection once.
func (s *CustomerService) Warm(ctx context.Context) error {
	return s.customers.Load(ctx)
}

// List returns every cached customer.
func (s *CustomerService) List() []domain.Customer { return s.customers.List() }

// ListActive returns customers whose status is not INACTIVE.
func (s *CustomerService) ListActive() []domain.Customer {
	return s.customers.Filter(func(c domain.Customer) bool { return c.IsActive() })
}

// ListInactive returns soft-deleted customers.
func (s *CustomerService) ListInactive() []domain.Customer {
	return s.customers.Filter(func(c domain.Customer) bool { return !c.IsActive() })
}

// Search filters active customers by name or email, case-insensitively.
// An empty term returns every active customer.
func (s *CustomerService) Search(term string) []domain.Customer {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.customers.Filter(func(c domain.Customer) bool {
		if !c.IsActive() {
			return false
		}
		if term == "" {
			return true
		}
		return strings.Contains(strings.ToLower(c.Person.Name), term) || strings.Contains(strings.ToLower(c.Person.Email), term)
	})
}

// Get returns one cached customer.
func (s *CustomerService) Get(id string) (*domain.Customer, error) {
	c, ok := s.customers.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "customer", ID: id}
	}
	return &c, nil
}

// Name resolves a customer id to its display name.
func (s *CustomerService) Name(id string) (string, bool) {
	c, ok := s.customers.Get(id)
	if !ok {
		return "", false
	}
	return c.Person.Name, true
}

// Create registers a customer with its initial products.
func (s *CustomerService) Create(ctx context.Context, in domain.NewCustomer) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Create")
	defer span.End()

	if err := in.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Person.Email))
	byEmail := func(c domain.Customer) bool {
		return strings.ToLower(strings.TrimSpace(c.Person.Email)) == email
	}
	return s.customers.CreateMatching(ctx, byEmail, func(ctx context.Context) (*domain.Customer, error) {
		return s.backend.CreateCustomer(ctx, in)
	})
}

// Update sends the whitelisted fields of a customer.
func (s *CustomerService) Update(ctx context.Context, id string, in domain.CustomerUpdate) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", id))

	if in.Status == "" {
		if current, ok := s.customers.Get(id); ok {
			in.Status = current.Status
			in.DeletedAt = current.DeletedAt
		} else {
			in.Status = domain.CustomerActive
		}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.customers.Update(ctx, id, func(ctx context.Context) (*domain.Customer, error) {
		return s.backend.UpdateCustomer(ctx, id, in)
	})
}

// Deactivate marks a customer INACTIVE. Unknown ids are ignored.
func (s *CustomerService) Deactivate(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Deactivate")
	defer span.End()

	return s.customers.Deactivate(ctx, id,
		func(c domain.Customer) domain.Customer {
			now := s.now().UTC()
			c.Status = domain.CustomerInactive
			c.DeletedAt = &now
			return c
		},
		func(ctx context.Context, next domain.Customer) (*domain.Customer, error) {
			return s.backend.UpdateCustomer(ctx, id, next.UpdatePayload())
		},
	)
}

// Reactivate marks a customer ACTIVE and clears the deletion date.
func (s *CustomerService) Reactivate(ctx context.Context, id string) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.Reactivate")
	defer span.End()

	c, err := s.customers.Restore(ctx, id,
		func(c domain.Customer) domain.Customer {
			c.Status = domain.CustomerActive
			c.DeletedAt = nil
			return c
		},
		func(ctx context.Context, next domain.Customer) (*domain.Customer, error) {
			return s.backend.UpdateCustomer(ctx, id, next.UpdatePayload())
		},
	)
	if err == nil && c != nil {
		s.notify(domain.NotificationSuccess, fmt.Sprintf("Cliente %q foi reativado.", c.Person.Name), nil)
	}
	return c, err
}

// AddProducts links products to a customer.
func (s *CustomerService) AddProducts(ctx context.Context, id string, productIDs []string) (*domain.Customer, error) {
	return s.ChangeProducts(ctx, id, domain.AssociationAction{Action: domain.AssociationAdd, ProductIDs: productIDs})
}

// RemoveProduct unlinks one product.
func (s *CustomerService) RemoveProduct(ctx context.Context, id, productID string) (*domain.Customer, error) {
	return s.ChangeProducts(ctx, id, domain.AssociationAction{Action: domain.AssociationRemove, ProductID: productID})
}

// ReplaceProduct swaps one linked product for another.
func (s *CustomerService) ReplaceProduct(ctx context.Context, id, productID, newProductID string) (*domain.Customer, error) {
	return s.ChangeProducts(ctx, id, domain.AssociationAction{
		Action: domain.AssociationReplace, ProductID: productID, NewProductID: newProductID,
	})
}

// ChangeProducts posts an association action and resyncs the whole
// collection, since the backend computes the resulting product list.
func (s *CustomerService) ChangeProducts(ctx context.Context, id string, action domain.AssociationAction) (*domain.Customer, error) {
	ctx, span := customerTracer.Start(ctx, "CustomerService.ChangeProducts")
	defer span.End()
	span.SetAttributes(
		attribute.String("customer.id", id),
		attribute.String("action", string(action.Action)),
	)

	if err := action.Validate(); err != nil {
		return nil, err
	}
	if err := s.backend.ChangeCustomerProducts(ctx, id, action); err != nil {
		s.logger.Warn("customer association failed",
			zap.String("customer_id", id),
			zap.String("action", string(action.Action)),
			zap.Error(err),
		)
		s.notify(domain.NotificationError, "Não foi possível alterar os produtos do cliente.", err)
		return nil, err
	}
	if err := s.customers.Resync(ctx); err != nil {
		s.logger.Warn("resync after association failed", zap.Error(err))
	}

	s.notify(domain.NotificationSuccess, associationMessage(action.Action), nil)
	c, ok := s.customers.Get(id)
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func associationMessage(kind domain.AssociationKind) string {
	switch kind {
	case domain.AssociationAdd:
		return "Novos produtos adicionados ao cliente."
	case domain.AssociationRemove:
		return "Produto removido do cliente."
	default:
		return "Produto substituído com sucesso."
	}
}

func (s *CustomerService) notify(level domain.NotificationLevel, msg string, err error) {
	notify(s.notifier, "customers", level, msg, err)
}

// notify sends a notification outside of a collection write.
func notify(n port.Notifier, resourceName string, level domain.NotificationLevel, msg string, err error) {
	if n == nil {
		return
	}
	note := domain.Notification{Level: level, Resource: resourceName, Message: msg, CreatedAt: time.Now()}
	if err != nil {
		note.Detail = err.Error()
	}
	n.Notify(note)
}
