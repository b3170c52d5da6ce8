package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"

	"go.uber.org/zap"
)

// ============================================================
// Shared helper functions
// ============================================================

type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func parsePage(r *http.Request) int {
	if v := r.URL.Query().Get("page"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 {
			return p
		}
	}
	return 1
}

func parseLimit(r *http.Request, fallback, max int) int {
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= max {
			return n
		}
	}
	return fallback
}

// parseFeedbackFilter reads q, category, rating, from and to. "all" and
// empty values disable a criterion.
func parseFeedbackFilter(r *http.Request) (domain.FeedbackFilter, error) {
	q := r.URL.Query()
	f := domain.FeedbackFilter{Search: strings.TrimSpace(q.Get("q"))}

	if c := strings.TrimSpace(q.Get("category")); c != "" && !strings.EqualFold(c, "all") {
		cat, ok := domain.ParseFeedbackCategory(c)
		if !ok {
			return f, &domain.ErrValidation{Field: "category", Message: "unknown category " + c}
		}
		f.Category = cat
	}
	if v := strings.TrimSpace(q.Get("rating")); v != "" && !strings.EqualFold(v, "all") {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 5 {
			return f, &domain.ErrValidation{Field: "rating", Message: "rating must be between 1 and 5"}
		}
		f.Rating = n
	}
	for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			t, ok := domain.ParseDate(v)
			if !ok {
				return f, &domain.ErrValidation{Field: key, Message: "expected YYYY-MM-DD"}
			}
			*dst = &t
		}
	}
	return f, nil
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var notFound *domain.ErrNotFound
	var circuitOpen *domain.ErrCircuitOpen
	var timeout *domain.ErrTimeout
	var validation *domain.ErrValidation
	var forbidden *domain.ErrForbidden
	var unauthorized *domain.ErrUnauthorized
	var conflict *domain.ErrConflict
	var precondition *domain.ErrPrecondition
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &forbidden):
		logger.Warn("forbidden access", zap.String("error", err.Error()))
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &precondition):
		logger.Debug("precondition failed", zap.String("redirect", precondition.Redirect))
		writeJSON(w, http.StatusPreconditionFailed, errorResponse{Error: precondition.Message, Redirect: precondition.Redirect})
	case errors.As(err, &external):
		logger.Error("backend error", zap.Int("status", external.StatusCode), zap.Error(err))
		writeError(w, http.StatusBadGateway, "FeedTrack API indisponível")
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
