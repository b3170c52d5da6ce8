package handler

import (
	"net/http"

	"github.com/equipe-feedtrack/feedtrack/internal/access"
	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// Autenticação
// ============================================================

func authLoginHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/login")
		defer span.End()

		var req domain.LoginRequest
		if !decodeBody(w, r, &req) {
			return
		}

		resp, err := authSvc.Login(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func authLogoutHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/auth/logout")
		defer span.End()

		if err := authSvc.Logout(ctx, ClaimsFromContext(ctx)); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, domain.SuccessResponse{Message: "Sessão encerrada."})
	}
}

func authMeHandler(authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/auth/me")
		defer span.End()

		writeJSON(w, http.StatusOK, authSvc.Me(ClaimsFromContext(ctx)))
	}
}

// ============================================================
// Navegação e controle de acesso
// ============================================================

type navigationResponse struct {
	User  domain.User      `json:"user"`
	Items []access.NavItem `json:"items"`
}

func navigationHandler(policy *access.Policy, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/navigation")
		defer span.End()

		user := UserFromContext(ctx)
		writeJSON(w, http.StatusOK, navigationResponse{User: *user, Items: policy.Navigation(user.Role)})
	}
}

// GET /v1/access?path=/reports works with or without a session, so the
// dashboard can ask before it has logged in.
func accessHandler(policy *access.Policy, authSvc *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracer.Start(r.Context(), "GET /v1/access")
		defer span.End()

		path := r.URL.Query().Get("path")
		if path == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}

		var user *domain.User
		if token := bearerToken(r); token != "" {
			if claims, err := authSvc.ValidateAccessToken(token); err == nil {
				u := claims.User()
				user = &u
			}
		}
		writeJSON(w, http.StatusOK, policy.Evaluate(path, user))
	}
}
