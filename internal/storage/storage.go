// internal/storage/storage.go
package storage

import (
	"context"
	"time"

	"luckydraw-crm/internal/domain"
)

// SessionStorage keeps gateway sessions. Business data never lands here.
type SessionStorage interface {
	CreateSession(ctx context.Context, s domain.Session) error
	// GetSession returns domain.ErrSessionNotFound for missing or expired sessions.
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	TouchSession(ctx context.Context, id string, verifiedAt time.Time, mustReset bool) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
