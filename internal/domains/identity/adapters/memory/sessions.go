package memory

import (
	"context"
	"sync"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/identity/ports"
)

var _ ports.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory SessionStore implementation.
type SessionStore struct {
	sessions sync.Map
}

func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

func (s *SessionStore) Save(_ context.Context, session domain.Session) error {
	s.sessions.Store(session.Token, session)
	return nil
}

func (s *SessionStore) Get(_ context.Context, token string) (domain.Session, error) {
	value, ok := s.sessions.Load(token)
	if !ok {
		return domain.Anonymous, ports.ErrSessionNotFound
	}
	return value.(domain.Session), nil
}

func (s *SessionStore) Delete(_ context.Context, token string) error {
	s.sessions.Delete(token)
	return nil
}
