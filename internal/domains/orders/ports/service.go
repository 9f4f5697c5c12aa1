package ports

import (
	"context"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

// QueryService exposes order queries and status writes to adapters and controllers.
type QueryService interface {
	FetchAllOrders(ctx context.Context) ([]*domain.Order, error)
	SetOrderStatus(ctx context.Context, orderID string, status domain.Status) error
}
