package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

// History reads the status change audit trail.
type History struct {
	log ports.AuditLog
}

func NewHistory(log ports.AuditLog) *History {
	return &History{log: log}
}

// ForOrder returns the recorded changes of one order, oldest first.
func (h *History) ForOrder(ctx context.Context, orderID string) ([]domain.StatusChange, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, mapError(domain.ErrEmptyID)
	}
	changes, err := h.log.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("load status history for %s: %w", orderID, err)
	}
	return changes, nil
}
