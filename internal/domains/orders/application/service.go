package application

import (
	"context"
	"fmt"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

var _ ports.QueryService = (*Service)(nil)

// Service is the single boundary between the order store and its consumers.
// Store failures never escape unwrapped.
type Service struct {
	store ports.Store
}

// NewService wires the query service with its store.
func NewService(store ports.Store) *Service {
	return &Service{store: store}
}

// FetchAllOrders performs one full read of the order collection.
func (s *Service) FetchAllOrders(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	out := make([]*domain.Order, 0, len(orders))
	for _, order := range orders {
		if order != nil {
			out = append(out, order)
		}
	}
	return out, nil
}

// SetOrderStatus writes only the status field of one order. The status is
// passed through as given.
func (s *Service) SetOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	if err := s.store.UpdateStatus(ctx, orderID, status); err != nil {
		return fmt.Errorf("%w: %w", ErrUpdate, err)
	}
	return nil
}

// Statistics loads the full list and aggregates it.
func (s *Service) Statistics(ctx context.Context) (domain.Statistics, error) {
	orders, err := s.FetchAllOrders(ctx)
	if err != nil {
		return domain.Aggregate(nil), err
	}
	return domain.Aggregate(orders), nil
}
