package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Relatórios
// ============================================================

const defaultTopProducts = 5

func reportOverviewHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/overview")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Overview(ctx))
	}
}

func reportDistributionHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/distribution")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Distribution(ctx))
	}
}

func reportCategoriesHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/categories")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Categories(ctx))
	}
}

func reportTrendHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/trend")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.Trend(ctx))
	}
}

func reportTopProductsHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/top-products")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.TopProducts(ctx, parseLimit(r, defaultTopProducts, 50)))
	}
}

func reportFormsHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/forms")
		defer span.End()

		writeJSON(w, http.StatusOK, svc.FormResponses(ctx))
	}
}

// GET /v1/reports/export.csv accepts the same filters as GET /v1/feedbacks.
func reportExportHandler(svc *service.AnalyticsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/reports/export.csv")
		defer span.End()

		filter, err := parseFeedbackFilter(r)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		var buf bytes.Buffer
		if err := svc.ExportCSV(ctx, &buf, filter); err != nil {
			handleServiceError(w, err, logger)
			return
		}

		name := fmt.Sprintf("feedbacks-%s.csv", time.Now().Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.WriteHeader(http.StatusOK)
		w.Write(buf.Bytes())
	}
}
