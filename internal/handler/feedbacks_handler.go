package handler

import (
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GET /v1/feedbacks?q=&category=&rating=&from=&to=&page=
func listFeedbacksHandler(svc *service.FeedbackService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/feedbacks")
		defer span.End()

		filter, err := parseFeedbackFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		page := svc.Query(filter, parsePage(r))
		span.SetAttributes(
			attribute.Int("feedbacks.total", page.Total),
			attribute.Int("feedbacks.page", page.Page),
		)
		writeJSON(w, http.StatusOK, page)
	}
}

// POST /v1/feedbacks
func submitFeedbackHandler(svc *service.FeedbackService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/feedbacks")
		defer span.End()

		var env domain.FeedbackEnvelope
		if !decodeBody(w, r, &env) {
			return
		}

		f, err := svc.Submit(ctx, env)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		if f != nil {
			span.SetAttributes(attribute.String("feedback.submission_id", f.SubmissionID))
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

// GET /v1/feedbacks/submission/{submissionId}
func getFeedbackBySubmissionHandler(svc *service.FeedbackService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/feedbacks/submission/{submissionId}")
		defer span.End()

		f, err := svc.GetBySubmission(ctx, chi.URLParam(r, "submissionId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// DELETE /v1/feedbacks/{id}
func deleteFeedbackHandler(svc *service.FeedbackService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/feedbacks/{id}")
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := svc.Delete(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Feedback excluído.", ID: id})
	}
}
