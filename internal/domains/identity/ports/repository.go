package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserRepository persists storefront accounts.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// SessionStore persists issued session tokens.
type SessionStore interface {
	Save(ctx context.Context, session domain.Session) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}
