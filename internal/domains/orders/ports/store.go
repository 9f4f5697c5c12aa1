package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

var (
	ErrNotFound        = errors.New("order not found")
	ErrMalformedRecord = errors.New("malformed order record")
)

// Store is the order document collection. Implementations perform exactly one
// round trip per call and never retry.
type Store interface {
	FetchAll(ctx context.Context) ([]*domain.Order, error)
	UpdateStatus(ctx context.Context, orderID string, status domain.Status) error
}

// Seeder inserts or replaces whole orders. Only seeding and tooling use it.
type Seeder interface {
	Insert(ctx context.Context, orders ...*domain.Order) error
}
