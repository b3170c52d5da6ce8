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

var productTracer = otel.Tracer("service/product")

// ProductService owns the product collection.
type ProductService struct {
	backend  port.ProductBackend
	products *resource.Collection[domain.Product]
	notifier port.Notifier
	now      func() time.Time
}

// NewProductService creates the product service.
func NewProductService(backend port.ProductBackend, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *ProductService {
	return &ProductService{
		backend: backend,
		products: resource.New("products", backend.ListProducts,
			resource.WithPolicy(resource.PolicyPatch),
			resource.WithMessages(resource.Messages{
				LoadFailed:   "Não foi possível carregar os produtos.",
				CreateFailed: "Não foi possível cadastrar o produto.",
				Updated:      "Produto atualizado.",
				UpdateFailed: "Não foi possível atualizar o produto.",
				Deactivated:  "Produto excluído.",
				Reactivated:  "Produto reativado.",
			}),
			resource.WithNotifier(notifier),
			resource.WithMetrics(metrics),
			resource.WithLogger(logger),
		),
		notifier: notifier,
		now:      time.Now,
	}
}

// Collection exposes the cache for status reporting.
func (s *ProductService) Collection() *resource.Collection[domain.Product] { return s.products }

// Warm loads the collection once.
func (s *ProductService) Warm(ctx context.Context) error { return s.products.Load(ctx) }

// List returns every cached product.
func (s *ProductService) List() []domain.Product { return s.products.List() }

// ListActive returns products not marked inactive.
func (s *ProductService) ListActive() []domain.Product {
	return s.products.Filter(func(p domain.Product) bool { return p.Active })
}

// ListInactive returns soft-deleted products.
func (s *ProductService) ListInactive() []domain.Product {
	return s.products.Filter(func(p domain.Product) bool { return !p.Active })
}

// Search matches active products by name, case-insensitively.
func (s *ProductService) Search(term string) []domain.Product {
	term = strings.ToLower(strings.TrimSpace(term))
	return s.products.Filter(func(p domain.Product) bool {
		return p.Active && (term == "" || strings.Contains(strings.ToLower(p.Name), term))
	})
}

// Get returns one cached product.
func (s *ProductService) Get(id string) (*domain.Product, error) {
	p, ok := s.products.Get(id)
	if !ok {
		return nil, &domain.ErrNotFound{Resource: "product", ID: id}
	}
	return &p, nil
}

// Name resolves a product id to its name.
func (s *ProductService) Name(id string) (string, bool) {
	p, ok := s.products.Get(id)
	if !ok {
		return "", false
	}
	return p.Name, true
}

// Create registers a product. New products are always active.
func (s *ProductService) Create(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.Create")
	defer span.End()

	in.Active = true
	in.DeletedAt = nil
	if err := in.Validate(); err != nil {
		return nil, err
	}
	byName := func(p domain.Product) bool { return p.Name == in.Name }
	p, err := s.products.CreateMatching(ctx, byName, func(ctx context.Context) (*domain.Product, error) {
		return s.backend.CreateProduct(ctx, in)
	})
	if err == nil {
		notify(s.notifier, "products", domain.NotificationSuccess, fmt.Sprintf("Produto %q cadastrado.", in.Name), nil)
	}
	return p, err
}

// Update sends the whitelisted fields of a product. The current soft-delete
// state is kept.
func (s *ProductService) Update(ctx context.Context, id string, in domain.ProductInput) (*domain.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.Update")
	defer span.End()
	span.SetAttributes(attribute.String("product.id", id))

	if current, ok := s.products.Get(id); ok {
		in.Active = current.Active
		in.DeletedAt = current.DeletedAt
	} else {
		in.Active = true
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.products.Update(ctx, id, func(ctx context.Context) (*domain.Product, error) {
		return s.backend.UpdateProduct(ctx, id, in)
	})
}

// Deactivate clears the active flag. Unknown ids are ignored.
func (s *ProductService) Deactivate(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.Deactivate")
	defer span.End()

	return s.products.Deactivate(ctx, id,
		func(p domain.Product) domain.Product {
			now := s.now().UTC()
			p.Active = false
			p.DeletedAt = &now
			return p
		},
		func(ctx context.Context, next domain.Product) (*domain.Product, error) {
			return s.backend.UpdateProduct(ctx, id, next.UpdatePayload())
		},
	)
}

// Reactivate sets the active flag and clears the deletion date.
func (s *ProductService) Reactivate(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := productTracer.Start(ctx, "ProductService.Reactivate")
	defer span.End()

	return s.products.Restore(ctx, id,
		func(p domain.Product) domain.Product {
			p.Active = true
			p.DeletedAt = nil
			return p
		},
		func(ctx context.Context, next domain.Product) (*domain.Product, error) {
			return s.backend.UpdateProduct(ctx, id, next.UpdatePayload())
		},
	)
}
