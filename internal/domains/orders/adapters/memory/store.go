package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

var _ ports.Store = (*Store)(nil)

// Store is an in-memory order collection that keeps insertion order.
type Store struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order
	order  []string
}

func NewStore() *Store {
	return &Store{orders: map[string]*domain.Order{}}
}

// Insert adds or replaces orders. Used for seeding and tests.
func (s *Store) Insert(_ context.Context, orders ...*domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range orders {
		if order == nil {
			return errors.New("order is nil")
		}
		if order.ID == "" {
			return ports.ErrMalformedRecord
		}
		if _, exists := s.orders[order.ID]; !exists {
			s.order = append(s.order, order.ID)
		}
		s.orders[order.ID] = order.Clone()
	}
	return nil
}

func (s *Store) FetchAll(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Order, 0, len(s.order))
	for _, id := range s.order {
		list = append(list, s.orders[id].Clone())
	}
	return list, nil
}

func (s *Store) UpdateStatus(_ context.Context, orderID string, status domain.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.orders[orderID]
	if !ok {
		return ports.ErrNotFound
	}
	order.Status = status
	return nil
}
