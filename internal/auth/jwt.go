// internal/auth/jwt.go
package auth

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"luckydraw-crm/internal/config"
	"luckydraw-crm/internal/domain"
)

const issuer = "luckydraw-crm"

// Claims point at a server-side session; the backend token never leaves the gateway.
type Claims struct {
	SessionID string      `json:"sid"`
	Role      domain.Role `json:"role"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secretKey []byte
	expiresIn time.Duration
}

func NewTokenService(cfg config.Config) *TokenService {
	return &TokenService{
		secretKey: []byte(cfg.JWTSecret),
		expiresIn: cfg.JWTExpiresIn,
	}
}

func (s *TokenService) ExpiresIn() time.Duration {
	return s.expiresIn
}

func (s *TokenService) GenerateToken(sess domain.Session) (string, error) {
	claims := Claims{
		SessionID: sess.ID,
		Role:      sess.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(sess.CreatedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString(s.secretKey)
	if err == nil {
		slog.Info("session token issued", "role", sess.Role, "user_id", sess.UserID, "expires_at", sess.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	return tokenStr, err
}

func (s *TokenService) ParseToken(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" || !claims.Role.Valid() {
		return nil, errors.New("invalid token claims")
	}
	slog.Debug("session token parsed", "sid", claims.SessionID, "role", claims.Role)
	return claims, nil
}
