// internal/storage/postgres/postgres.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/storage"
)

// DB is the slice of pgxpool.Pool the storage needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	db DB
}

var _ storage.SessionStorage = (*Storage)(nil)

func NewStorage(db *pgxpool.Pool) *Storage {
	return &Storage{db: db}
}

func newWithDB(db DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) CreateSession(ctx context.Context, sess domain.Session) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO sessions (id, role, user_id, backend_token, must_reset_password, created_at, expires_at, verified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sess.ID, string(sess.Role), sess.UserID, sess.BackendToken, sess.MustResetPassword,
		sess.CreatedAt, sess.ExpiresAt, sess.VerifiedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

func (s *Storage) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var sess domain.Session
	var role string
	err := s.db.QueryRow(ctx, `
		SELECT id::text, role, user_id, backend_token, must_reset_password, created_at, expires_at, verified_at
		FROM sessions
		WHERE id = $1 AND expires_at > NOW()
	`, id).Scan(&sess.ID, &role, &sess.UserID, &sess.BackendToken, &sess.MustResetPassword,
		&sess.CreatedAt, &sess.ExpiresAt, &sess.VerifiedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("select session: %w", err)
	}
	sess.Role = domain.Role(role)
	return &sess, nil
}

func (s *Storage) TouchSession(ctx context.Context, id string, verifiedAt time.Time, mustReset bool) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE sessions SET verified_at = $2, must_reset_password = $3 WHERE id = $1
	`, id, verifiedAt, mustReset)
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, id string) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *Storage) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	slog.Debug("expired sessions pruned", "count", tag.RowsAffected())
	return tag.RowsAffected(), nil
}
