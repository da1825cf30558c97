// internal/auth/session.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"luckydraw-crm/internal/backend"
	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/storage"
)

// Backend is the part of the backend client the session flow needs.
type Backend interface {
	Login(ctx context.Context, role domain.Role, creds backend.Credentials) (*backend.LoginResult, error)
	Verify(ctx context.Context, token string) (*backend.Verification, error)
	ResetPassword(ctx context.Context, token, current, next string) error
}

type SessionService struct {
	store     storage.SessionStorage
	tokens    *TokenService
	backend   Backend
	verifyTTL time.Duration
	now       func() time.Time
}

func NewSessionService(store storage.SessionStorage, tokens *TokenService, b Backend, verifyTTL time.Duration) *SessionService {
	return &SessionService{
		store:     store,
		tokens:    tokens,
		backend:   b,
		verifyTTL: verifyTTL,
		now:       time.Now,
	}
}

// Login authenticates against the backend and opens a gateway session.
// Backend failures come back unchanged so their message reaches the user.
func (s *SessionService) Login(ctx context.Context, role domain.Role, phone, password string) (*domain.Session, string, error) {
	res, err := s.backend.Login(ctx, role, backend.Credentials{Phone: phone, Password: password})
	if err != nil {
		return nil, "", err
	}

	now := s.now()
	sess := domain.Session{
		ID:                uuid.NewString(),
		Role:              role,
		UserID:            res.UserID,
		BackendToken:      res.Token,
		MustResetPassword: res.MustResetPassword,
		CreatedAt:         now,
		ExpiresAt:         now.Add(s.tokens.ExpiresIn()),
		VerifiedAt:        now,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("store session: %w", err)
	}

	token, err := s.tokens.GenerateToken(sess)
	if err != nil {
		_ = s.store.DeleteSession(ctx, sess.ID)
		return nil, "", fmt.Errorf("sign session token: %w", err)
	}
	return &sess, token, nil
}

// Authenticate resolves a gateway token to a live session. The backend is
// asked again once the last verification is older than the verify TTL.
// Every "not logged in" outcome is reported as domain.ErrUnauthorized.
func (s *SessionService) Authenticate(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}

	sess, err := s.store.GetSession(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
		}
		return nil, err
	}
	if sess.Role != claims.Role {
		return nil, fmt.Errorf("%w: role mismatch", domain.ErrUnauthorized)
	}

	now := s.now()
	if now.Sub(sess.VerifiedAt) < s.verifyTTL {
		return sess, nil
	}

	v, err := s.backend.Verify(ctx, sess.BackendToken)
	if err != nil {
		return nil, fmt.Errorf("verify session: %w", err)
	}
	if !v.Valid {
		slog.Info("backend rejected session", "sid", sess.ID, "user_id", sess.UserID)
		if err := s.store.DeleteSession(ctx, sess.ID); err != nil {
			slog.Error("delete rejected session", "error", err, "sid", sess.ID)
		}
		return nil, fmt.Errorf("%w: backend rejected token", domain.ErrUnauthorized)
	}

	if err := s.store.TouchSession(ctx, sess.ID, now, v.MustResetPassword); err != nil {
		return nil, fmt.Errorf("touch session: %w", err)
	}
	sess.VerifiedAt = now
	sess.MustResetPassword = v.MustResetPassword
	return sess, nil
}

func (s *SessionService) ResetPassword(ctx context.Context, sess *domain.Session, current, next string) error {
	if err := s.backend.ResetPassword(ctx, sess.BackendToken, current, next); err != nil {
		return err
	}
	if err := s.store.TouchSession(ctx, sess.ID, s.now(), false); err != nil {
		return fmt.Errorf("clear reset flag: %w", err)
	}
	sess.MustResetPassword = false
	return nil
}

func (s *SessionService) Logout(ctx context.Context, sessionID string) error {
	return s.store.DeleteSession(ctx, sessionID)
}

// PruneExpired drops sessions past their expiry.
func (s *SessionService) PruneExpired(ctx context.Context) (int64, error) {
	return s.store.DeleteExpired(ctx, s.now())
}
