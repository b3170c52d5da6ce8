package handler

import (
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GET /v1/customers?q=
func listCustomersHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/customers")
		defer span.End()

		if q := r.URL.Query().Get("q"); q != "" {
			writeJSON(w, http.StatusOK, svc.Search(q))
			return
		}
		writeJSON(w, http.StatusOK, svc.ListActive())
	}
}

// GET /v1/customers/inactive
func listInactiveCustomersHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/customers/inactive")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.ListInactive())
	}
}

// GET /v1/customers/{id}
func getCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/customers/{id}")
		defer span.End()

		c, err := svc.Get(chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /v1/customers
func createCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers")
		defer span.End()

		var in domain.NewCustomer
		if !decodeBody(w, r, &in) {
			return
		}

		c, err := svc.Create(ctx, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if c != nil {
			span.SetAttributes(attribute.String("customer.id", c.ID))
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// PUT /v1/customers/{id}
func updateCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/customers/{id}")
		defer span.End()

		var in domain.CustomerUpdate
		if !decodeBody(w, r, &in) {
			return
		}

		c, err := svc.Update(ctx, chi.URLParam(r, "id"), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /v1/customers/{id}/deactivate
func deactivateCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers/{id}/deactivate")
		defer span.End()

		c, err := svc.Deactivate(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /v1/customers/{id}/reactivate
func reactivateCustomerHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers/{id}/reactivate")
		defer span.End()

		c, err := svc.Reactivate(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /v1/customers/{id}/products
func changeCustomerProductsHandler(svc *service.CustomerService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/customers/{id}/products")
		defer span.End()

		var action domain.AssociationAction
		if !decodeBody(w, r, &action) {
			return
		}
		span.SetAttributes(attribute.String("association.action", string(action.Action)))

		c, err := svc.ChangeProducts(ctx, chi.URLParam(r, "id"), action)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}
