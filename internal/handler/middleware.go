package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/access"
	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type contextKey string

const claimsKey contextKey = "claims"

// JWTAuthMiddleware validates Bearer tokens and injects the claims into
// context. Websocket clients may pass the token as access_token instead.
func JWTAuthMiddleware(authSvc *service.AuthService, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			tokenString := ""
			switch {
			case authHeader != "":
				parts := strings.SplitN(authHeader, " ", 2)
				if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
					logger.Warn("auth: invalid token format",
						zap.String("path", r.URL.Path),
						zap.String("remote_addr", r.RemoteAddr),
					)
					writeError(w, http.StatusUnauthorized, "Formato de token inválido")
					return
				}
				tokenString = parts[1]
			case r.URL.Query().Get("access_token") != "":
				tokenString = r.URL.Query().Get("access_token")
			default:
				logger.Warn("auth: missing token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
				)
				writeError(w, http.StatusUnauthorized, "Token de autenticação não fornecido")
				return
			}

			claims, err := authSvc.ValidateAccessToken(tokenString)
			if err != nil {
				logger.Warn("auth: invalid or expired token",
					zap.String("path", r.URL.Path),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Error(err),
				)
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

// ClaimsFromContext returns the validated token claims, or nil.
func ClaimsFromContext(ctx context.Context) *service.JWTClaims {
	c, _ := ctx.Value(claimsKey).(*service.JWTClaims)
	return c
}

// UserFromContext returns the signed-in user, or nil for anonymous requests.
func UserFromContext(ctx context.Context) *domain.User {
	c := ClaimsFromContext(ctx)
	if c == nil {
		return nil
	}
	u := c.User()
	return &u
}

// RequireRoute guards an API group with the access rule of a dashboard
// page, so the API and the menu never disagree.
func RequireRoute(policy *access.Policy, page string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := policy.Evaluate(page, UserFromContext(r.Context()))
			switch d.Outcome {
			case access.Allow:
				next.ServeHTTP(w, r)
			case access.RedirectLogin:
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Token de autenticação não fornecido", Redirect: d.Redirect})
			case access.Forbidden:
				logger.Warn("access denied",
					zap.String("page", page),
					zap.String("path", r.URL.Path),
				)
				writeJSON(w, http.StatusForbidden, errorResponse{Error: d.Message, Redirect: d.Redirect})
			default:
				writeError(w, http.StatusNotFound, d.Message)
			}
		})
	}
}

// MetricsMiddleware records request duration per route pattern.
func MetricsMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			pattern := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				pattern = rc.RoutePattern()
			}
			metrics.RecordRequestDuration(r.Method+" "+pattern, time.Since(start))
		})
	}
}
