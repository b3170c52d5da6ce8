package handler

import (
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GET /v1/products?q=
func listProductsHandler(svc *service.ProductService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/products")
		defer span.End()

		if q := r.URL.Query().Get("q"); q != "" {
			writeJSON(w, http.StatusOK, svc.Search(q))
			return
		}
		writeJSON(w, http.StatusOK, svc.ListActive())
	}
}

// GET /v1/products/inactive
func listInactiveProductsHandler(svc *service.ProductService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/products/inactive")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.ListInactive())
	}
}

// GET /v1/products/{id}
func getProductHandler(svc *service.ProductService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/products/{id}")
		defer span.End()

		p, err := svc.Get(chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// POST /v1/products
func createProductHandler(svc *service.ProductService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/products")
		defer span.End()

		var in domain.ProductInput
		if !decodeBody(w, r, &in) {
			return
		}

		p, err := svc.Create(ctx, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, p)
	}
}

// PUT /v1/products/{id}
func updateProductHandler(svc *service.ProductService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/products/{id}")
		defer span.End()

		var in domain.ProductInput
		if !decodeBody(w, r, &in) {
			return
		}

		p, err := svc.Update(ctx, chi.URLParam(r, "id"), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// POST /v1/products/{id}/deactivate
func deactivateProductHandler(svc *service.ProductService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/products/{id}/deactivate")
		defer span.End()

		p, err := svc.Deactivate(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}

// POST /v1/products/{id}/reactivate
func reactivateProductHandler(svc *service.ProductService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/products/{id}/reactivate")
		defer span.End()

		p, err := svc.Reactivate(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, p)
	}
}
