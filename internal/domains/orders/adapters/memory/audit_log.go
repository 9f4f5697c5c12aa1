package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

var _ ports.AuditLog = (*AuditLog)(nil)

// AuditLog keeps status changes in memory, grouped by order.
type AuditLog struct {
	mu      sync.RWMutex
	changes map[string][]domain.StatusChange
}

func NewAuditLog() *AuditLog {
	return &AuditLog{changes: map[string][]domain.StatusChange{}}
}

// Append is idempotent on the change id.
func (l *AuditLog) Append(_ context.Context, change domain.StatusChange) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.changes[change.OrderID] {
		if existing.ID == change.ID {
			return nil
		}
	}
	l.changes[change.OrderID] = append(l.changes[change.OrderID], change)
	return nil
}

func (l *AuditLog) ListByOrder(_ context.Context, orderID string) ([]domain.StatusChange, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	list := append([]domain.StatusChange(nil), l.changes[orderID]...)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].OccurredAt.Before(list[j].OccurredAt)
	})
	return list, nil
}
