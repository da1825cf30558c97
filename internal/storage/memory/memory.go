// internal/storage/memory/memory.go
package memory

import (
	"context"
	"sync"
	"time"

	"luckydraw-crm/internal/domain"
	"luckydraw-crm/internal/storage"
)

// Storage keeps sessions in process. Used when DATABASE_URL is unset and in tests.
type Storage struct {
	mu       sync.Mutex
	sessions map[string]domain.Session
	now      func() time.Time
}

var _ storage.SessionStorage = (*Storage)(nil)

func NewStorage() *Storage {
	return &Storage{sessions: make(map[string]domain.Session), now: time.Now}
}

func (s *Storage) CreateSession(_ context.Context, sess domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

func (s *Storage) GetSession(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok || sess.Expired(s.now()) {
		return nil, domain.ErrSessionNotFound
	}
	return &sess, nil
}

func (s *Storage) TouchSession(_ context.Context, id string, verifiedAt time.Time, mustReset bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domain.ErrSessionNotFound
	}
	sess.VerifiedAt = verifiedAt
	sess.MustResetPassword = mustReset
	s.sessions[id] = sess
	return nil
}

func (s *Storage) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *Storage) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n, nil
}
