package service

import (
	"fmt"
	"time"

	"github.com/equipe-feedtrack/feedtrack/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "feedtrack-bfa"

// ============================================================
// ValidateToken: used by middleware
// ============================================================

// JWTClaims represents the custom claims in access tokens.
type JWTClaims struct {
	Sub  string      `json:"sub"`
	Role domain.Role `json:"role"`
	Name string      `json:"name"`
	Type string      `json:"type"`
	jwt.RegisteredClaims
}

// User rebuilds the signed-in user from the claims.
func (c *JWTClaims) User() domain.User {
	return domain.User{Username: c.Sub, Role: c.Role, DisplayName: c.Name}
}

func (s *AuthService) ValidateAccessToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido ou expirado"}
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido"}
	}

	if claims.Type != "access" {
		return nil, &domain.ErrUnauthorized{Message: "Tipo de token inválido"}
	}
	if !claims.Role.Valid() {
		return nil, &domain.ErrUnauthorized{Message: "Token inválido"}
	}
	if s.revoked != nil && claims.ID != "" {
		if _, gone := s.revoked.Get(claims.ID); gone {
			return nil, &domain.ErrUnauthorized{Message: "Sessão encerrada"}
		}
	}

	return claims, nil
}

// ============================================================
// Internal JWT helpers
// ============================================================

func (s *AuthService) signAccessToken(user domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.accessTTL)
	claims := JWTClaims{
		Sub:  user.Username,
		Role: user.Role,
		Name: user.DisplayName,
		Type: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	return signed, expiresAt, err
}
