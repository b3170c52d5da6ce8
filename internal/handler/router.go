package handler

import (
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/access"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/feedtrackapi"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/notify"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// Deps bundles what the router serves.
type Deps struct {
	Catalog        *service.Catalog
	Auth           *service.AuthService
	Policy         *access.Policy
	Hub            *notify.Hub
	Backend        BackendHealth
	AllowedOrigins []string
}

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract consumed by the FeedTrack dashboard.
func NewRouter(deps Deps, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	cat := deps.Catalog
	policy := deps.Policy
	if policy == nil {
		policy = access.Default()
	}
	resources := feedtrackapi.Resources()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware(metrics))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(deps.Backend, logger))
	r.Get("/readyz", readyzHandler(cat))
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. Autenticação (public)
		// =============================================
		r.Post("/auth/login", authLoginHandler(deps.Auth, logger))
		r.Get("/access", accessHandler(policy, deps.Auth, logger))

		r.Group(func(r chi.Router) {
			r.Use(JWTAuthMiddleware(deps.Auth, logger))

			r.Post("/auth/logout", authLogoutHandler(deps.Auth, logger))
			r.Get("/auth/me", authMeHandler(deps.Auth, logger))
			r.Get("/navigation", navigationHandler(policy, logger))

			// =============================================
			// 2. Clientes
			// =============================================
			r.Group(func(r chi.Router) {
				r.Use(RequireRoute(policy, "/customers", logger))
				r.Get("/customers", listCustomersHandler(cat.Customers, logger))
				r.Post("/customers", createCustomerHandler(cat.Customers, logger))
				r.Get("/customers/inactive", listInactiveCustomersHandler(cat.Customers, logger))
				r.Get("/customers/{id}", getCustomerHandler(cat.Customers, logger))
				r.Put("/customers/{id}", updateCustomerHandler(cat.Customers, logger))
				r.Post("/customers/{id}/deactivate", deactivateCustomerHandler(cat.Customers, logger))
				r.Post("/customers/{id}/reactivate", reactivateCustomerHandler(cat.Customers, logger))
				r.Post("/customers/{id}/products", changeCustomerProductsHandler(cat.Customers, logger))
			})

			// =============================================
			// 3. Produtos
			// =============================================
			r.Group(func(r chi.Router) {
				r.Use(RequireRoute(policy, "/products", logger))
				r.Get("/products", listProductsHandler(cat.Products, logger))
				r.Post("/products", createProductHandler(cat.Products, logger))
				r.Get("/products/inactive", listInactiveProductsHandler(cat.Products, logger))
				r.Get("/products/{id}", getProductHandler(cat.Products, logger))
				r.Put("/products/{id}", updateProductHandler(cat.Products, logger))
				r.Post("/products/{id}/deactivate", deactivateProductHandler(cat.Products, logger))
				r.Post("/products/{id}/reactivate", reactivateProductHandler(cat.Products, logger))
			})

			// =============================================
			// 4. Formulários e perguntas
			// =============================================
			r.Group(func(r chi.Router) {
				r.Use(RequireRoute(policy, "/form-builder", logger))
				r.Get("/forms", listFormsHandler(cat.Forms, logger))
				r.Post("/forms", createFormHandler(cat.Forms, logger))
				r.Get("/forms/{id}", getFormHandler(cat.Forms, logger))
				r.Put("/forms/{id}", updateFormHandler(cat.Forms, logger))
				r.Delete("/forms/{id}", deleteFormHandler(cat.Forms, logger))
				r.Get("/questions", listQuestionsHandler(cat.Forms, logger))
				r.Post("/questions", createQuestionHandler(cat.Forms, logger))
			})

			// =============================================
			// 5. Campanhas
			// =============================================
			r.Group(func(r chi.Router) {
				r.Use(RequireRoute(policy, "/campaigns", logger))
				r.Get("/campaigns", listCampaignsHandler(cat.Campaigns, logger))
				r.Post("/campaigns", createCampaignHandler(cat.Campaigns, logger))
				r.Get("/campaigns/{id}", getCampaignHandler(cat.Campaigns, logger))
				r.Put("/campaigns/{id}", updateCampaignHandler(cat.Campaigns, logger))
				r.Delete("/campaigns/{id}", deactivateCampaignHandler(cat.Campaigns, logger))
				r.Post("/campaigns/{id}/toggle", toggleCampaignHandler(cat.Campaigns, logger))
				r.Post("/campaigns/{id}/preview", previewCampaignHandler(cat.Campaigns, logger))
			})

			// =============================================
			// 6. Feedbacks
			// =============================================
			r.Group(func(r chi.Router) {
				r.Use(RequireRoute(policy, "/feedbacks", logger))
				r.Get("/feedbacks", listFeedbacksHandler(cat.Feedbacks, logger))
				r.Post("/feedbacks", submitFeedbackHandler(cat.Feedbacks, logger))
				r.Get("/feedbacks/submission/{submissionId}", getFeedbackBySubmissionHandler(cat.Feedbacks, logger))
				r.Delete("/feedbacks/{id}", deleteFeedbackHandler(cat.Feedbacks, logger))
			})

			// =============================================
			// 7. Relatórios (admin/master)
			// =============================================
			r.Route("/reports", func(r chi.Router) {
				r.Use(RequireRoute(policy, "/reports", logger))
				r.Get("/overview", reportOverviewHandler(cat.Analytics, logger))
				r.Get("/distribution", reportDistributionHandler(cat.Analytics, logger))
				r.Get("/categories", reportCategoriesHandler(cat.Analytics, logger))
				r.Get("/trend", reportTrendHandler(cat.Analytics, logger))
				r.Get("/top-products", reportTopProductsHandler(cat.Analytics, logger))
				r.Get("/forms", reportFormsHandler(cat.Analytics, logger))
				r.Get("/export.csv", reportExportHandler(cat.Analytics, logger))
			})

			// =============================================
			// 8. Recursos e notificações
			// =============================================
			r.Get("/resources/status", resourcesStatusHandler(cat, deps.Backend, metrics, resources, logger))
			r.With(RequireRoute(policy, "/settings", logger)).
				Post("/resources/reload", resourcesReloadHandler(cat, deps.Backend, metrics, resources, logger))

			r.Get("/notifications", listNotificationsHandler(deps.Hub, logger))
			r.Get("/notifications/ws", deps.Hub.ServeWS)
		})
	})

	return r
}
