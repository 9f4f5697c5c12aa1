package ports

import (
	"context"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
)

// Service exposes session use cases to adapters.
type Service interface {
	Login(ctx context.Context, username, password string) (domain.Session, error)
	Logout(ctx context.Context, token string) error
	Resolve(ctx context.Context, token string) (domain.Session, error)
}
