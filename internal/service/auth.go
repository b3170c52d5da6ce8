// Package service holds the FeedTrack domain services. Each service owns
// the resource cache of one backend collection and reports the outcome of
// every write through a notifier.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"
	"github.com/equipe-feedtrack/feedtrack/internal/infra/observability"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var authTracer = otel.Tracer("service/auth")

// Credential is one staff login. Passwords are kept only as bcrypt hashes.
type Credential struct {
	Username     string
	PasswordHash string
	Role         domain.Role
	DisplayName  string
}

// NewCredential hashes password with the given bcrypt cost.
func NewCredential(username, password string, role domain.Role, displayName string, cost int) (Credential, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return Credential{}, fmt.Errorf("hash password for %s: %w", username, err)
	}
	return Credential{Username: username, PasswordHash: string(hash), Role: role, DisplayName: displayName}, nil
}

// DefaultCredentials returns the built-in staff accounts.
func DefaultCredentials() ([]Credential, error) {
	seed := []struct {
		user, pass, name string
		role             domain.Role
	}{
		{"admin", "admin123", "Administrador", domain.RoleAdmin},
		{"funcionario", "func123", "Funcionário", domain.RoleEmployee},
		{"master", "master123", "Master", domain.RoleMaster},
	}
	out := make([]Credential, 0, len(seed))
	for _, s := range seed {
		c, err := NewCredential(s.user, s.pass, s.role, s.name, bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Denylist stores revoked token ids until they would have expired anyway.
type Denylist interface {
	Get(key string) (bool, bool)
	SetWithTTL(key string, value bool, ttl time.Duration)
}

// AuthService signs in staff members and validates their session tokens.
type AuthService struct {
	users     map[string]Credential
	jwtSecret []byte
	accessTTL time.Duration
	revoked   Denylist
	metrics   *observability.Metrics
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService creates a new auth service.
func NewAuthService(creds []Credential, jwtSecret string, accessTTL time.Duration, revoked Denylist, metrics *observability.Metrics, logger *zap.Logger) *AuthService {
	users := make(map[string]Credential, len(creds))
	for _, c := range creds {
		users[strings.ToLower(c.Username)] = c
	}
	return &AuthService{
		users:     users,
		jwtSecret: []byte(jwtSecret),
		accessTTL: accessTTL,
		revoked:   revoked,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// ============================================================
// Login: POST /v1/auth/login
// ============================================================

func (s *AuthService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.Session, error) {
	_, span := authTracer.Start(ctx, "AuthService.Login")
	defer span.End()

	username := strings.ToLower(strings.TrimSpace(req.Username))
	span.SetAttributes(attribute.String("username", username))

	if username == "" || req.Password == "" {
		return nil, &domain.ErrValidation{Message: "Usuário e senha são obrigatórios."}
	}

	cred, ok := s.users[username]
	if !ok || bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(req.Password)) != nil {
		s.logger.Warn("login: invalid credentials", zap.String("username", username))
		s.recordLogin("rejected")
		return nil, &domain.ErrUnauthorized{Message: "Usuário ou senha inválidos."}
	}

	user := domain.User{Username: cred.Username, Role: cred.Role, DisplayName: cred.DisplayName}
	token, expiresAt, err := s.signAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	s.recordLogin("success")
	s.logger.Info("user logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))

	return &domain.Session{
		User:        user,
		AccessToken: token,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int(s.accessTTL.Seconds()),
	}, nil
}

// ============================================================
// Logout: POST /v1/auth/logout
// ============================================================

// Logout revokes the token until its natural expiry.
func (s *AuthService) Logout(ctx context.Context, claims *JWTClaims) error {
	_, span := authTracer.Start(ctx, "AuthService.Logout")
	defer span.End()

	if claims == nil || claims.ID == "" {
		return &domain.ErrUnauthorized{Message: "Token inválido"}
	}
	ttl := s.accessTTL
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
	}
	if ttl > 0 && s.revoked != nil {
		s.revoked.SetWithTTL(claims.ID, true, ttl)
	}

	s.logger.Info("user logged out", zap.String("username", claims.Sub))
	return nil
}

// Me returns the user carried by validated claims.
func (s *AuthService) Me(claims *JWTClaims) domain.User {
	return claims.User()
}

func (s *AuthService) recordLogin(status string) {
	if s.metrics != nil {
		s.metrics.IncrLogin(status)
	}
}
