package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/cache"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"
	"github.com/equipe-feedtrack/feedtrack/internal/service"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newAuth(t *testing.T, ttl time.Duration) *service.AuthService {
	t.Helper()
	admin, err := service.NewCredential("admin", "admin123", domain.RoleAdmin, "Administrador", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	employee, err := service.NewCredential("funcionario", "func123", domain.RoleEmployee, "Funcionário", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	revoked := cache.New[bool](time.Minute)
	t.Cleanup(revoked.Stop)
	return service.NewAuthService([]service.Credential{admin, employee}, "test-secret", ttl, revoked, observability.NewMetrics(), zap.NewNop())
}

// --- Tests ---

func TestLogin_Success(t *testing.T) {
	svc := newAuth(t, time.Hour)

	sess, err := svc.Login(context.Background(), &domain.LoginRequest{Username: "Funcionario", Password: "func123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.User.Role != domain.RoleEmployee || sess.User.DisplayName != "Funcionário" {
		t.Errorf("unexpected user: %+v", sess.User)
	}
	if sess.ExpiresIn != 3600 {
		t.Errorf("expected 3600s expiry, got %d", sess.ExpiresIn)
	}

	claims, err := svc.ValidateAccessToken(sess.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.User() != sess.User {
		t.Errorf("claims user %+v differs from session user %+v", claims.User(), sess.User)
	}
	if claims.ID == "" {
		t.Error("expected a token id")
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc := newAuth(t, time.Hour)

	tests := []struct {
		name string
		req  domain.LoginRequest
	}{
		{"wrong password", domain.LoginRequest{Username: "admin", Password: "nope"}},
		{"unknown user", domain.LoginRequest{Username: "ghost", Password: "admin123"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), &tt.req)
			var ua *domain.ErrUnauthorized
			if !errors.As(err, &ua) {
				t.Errorf("expected ErrUnauthorized, got %v", err)
			}
		})
	}

	var v *domain.ErrValidation
	if _, err := svc.Login(context.Background(), &domain.LoginRequest{Username: "admin"}); !errors.As(err, &v) {
		t.Errorf("expected ErrValidation for empty password, got %v", err)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	svc := newAuth(t, time.Hour)
	ctx := context.Background()

	sess, _ := svc.Login(ctx, &domain.LoginRequest{Username: "admin", Password: "admin123"})
	claims, err := svc.ValidateAccessToken(sess.AccessToken)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.ValidateAccessToken(sess.AccessToken); err == nil {
		t.Error("revoked token must be rejected")
	}
}

func TestValidateAccessToken_RejectsForeignTokens(t *testing.T) {
	svc := newAuth(t, time.Hour)
	other := newAuth(t, time.Hour)

	if _, err := svc.ValidateAccessToken("not-a-jwt"); err == nil {
		t.Error("garbage must be rejected")
	}

	sess, _ := svc.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "admin123"})
	if _, err := other.ValidateAccessToken(sess.AccessToken); err != nil {
		t.Errorf("same secret should validate, got %v", err)
	}

	expired := newAuth(t, -time.Minute)
	sess, _ = expired.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "admin123"})
	if _, err := expired.ValidateAccessToken(sess.AccessToken); err == nil {
		t.Error("expired token must be rejected")
	}
}
