package handler

import (
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type previewRequest struct {
	Vars map[string]string `json:"vars"`
}

type previewResponse struct {
	Message string `json:"message"`
}

// GET /v1/campaigns
func listCampaignsHandler(svc *service.CampaignService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/campaigns")
		defer span.End()

		if r.URL.Query().Get("status") == "active" {
			writeJSON(w, http.StatusOK, svc.ListActive())
			return
		}
		writeJSON(w, http.StatusOK, svc.List())
	}
}

// GET /v1/campaigns/{id}
func getCampaignHandler(svc *service.CampaignService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/campaigns/{id}")
		defer span.End()

		c, err := svc.Get(chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /v1/campaigns
func createCampaignHandler(svc *service.CampaignService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/campaigns")
		defer span.End()

		var in domain.NewCampaign
		if !decodeBody(w, r, &in) {
			return
		}

		c, err := svc.Create(ctx, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if c != nil {
			span.SetAttributes(attribute.String("campaign.id", c.ID))
		}
		writeJSON(w, http.StatusCreated, c)
	}
}

// PUT /v1/campaigns/{id}
func updateCampaignHandler(svc *service.CampaignService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/campaigns/{id}")
		defer span.End()

		var in domain.CampaignPatch
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

// POST /v1/campaigns/{id}/toggle
func toggleCampaignHandler(svc *service.CampaignService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/campaigns/{id}/toggle")
		defer span.End()

		c, err := svc.Toggle(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if c != nil {
			span.SetAttributes(attribute.Bool("campaign.active", c.Active))
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// DELETE /v1/campaigns/{id}
func deactivateCampaignHandler(svc *service.CampaignService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/campaigns/{id}")
		defer span.End()

		c, err := svc.Deactivate(ctx, chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, c)
	}
}

// POST /v1/campaigns/{id}/preview
func previewCampaignHandler(svc *service.CampaignService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "POST /v1/campaigns/{id}/preview")
		defer span.End()

		var req previewRequest
		if !decodeBody(w, r, &req) {
			return
		}

		msg, err := svc.Preview(chi.URLParam(r, "id"), req.Vars)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, previewResponse{Message: msg})
	}
}
