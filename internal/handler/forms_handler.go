package handler

import (
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// GET /v1/forms
func listFormsHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/forms")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.ListForms())
	}
}

// GET /v1/forms/{id}
func getFormHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/forms/{id}")
		defer span.End()

		f, err := svc.GetForm(chi.URLParam(r, "id"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// POST /v1/forms
func createFormHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/forms")
		defer span.End()

		var in domain.FormInput
		if !decodeBody(w, r, &in) {
			return
		}

		f, err := svc.CreateForm(ctx, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, f)
	}
}

// PUT /v1/forms/{id}
func updateFormHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/forms/{id}")
		defer span.End()

		var in domain.FormInput
		if !decodeBody(w, r, &in) {
			return
		}

		f, err := svc.UpdateForm(ctx, chi.URLParam(r, "id"), in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, f)
	}
}

// DELETE /v1/forms/{id}
func deleteFormHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /v1/forms/{id}")
		defer span.End()

		id := chi.URLParam(r, "id")
		if err := svc.DeleteForm(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Formulário excluído.", ID: id})
	}
}

// GET /v1/questions
func listQuestionsHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/questions")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.ListQuestions())
	}
}

// POST /v1/questions
func createQuestionHandler(svc *service.FormService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/questions")
		defer span.End()

		var in domain.NewQuestion
		if !decodeBody(w, r, &in) {
			return
		}

		q, err := svc.CreateQuestion(ctx, in)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, q)
	}
}
