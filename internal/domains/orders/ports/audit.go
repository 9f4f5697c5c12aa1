package ports

import (
	"context"
	"errors"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

// AuditLog persists accepted status changes.
type AuditLog interface {
	Append(ctx context.Context, change domain.StatusChange) error
	ListByOrder(ctx context.Context, orderID string) ([]domain.StatusChange, error)
}

// StatusChangeRecorder receives status changes after the store write succeeded.
type StatusChangeRecorder interface {
	Record(ctx context.Context, change domain.StatusChange) error
}

// NoopRecorder discards every change.
var NoopRecorder StatusChangeRecorder = noopRecorder{}

type noopRecorder struct{}

func (noopRecorder) Record(context.Context, domain.StatusChange) error { return nil }

// Recorders fans a change out to every non-nil recorder and joins their errors.
func Recorders(recorders ...StatusChangeRecorder) StatusChangeRecorder {
	active := make(multiRecorder, 0, len(recorders))
	for _, r := range recorders {
		if r != nil {
			active = append(active, r)
		}
	}
	if len(active) == 0 {
		return NoopRecorder
	}
	if len(active) == 1 {
		return active[0]
	}
	return active
}

type multiRecorder []StatusChangeRecorder

func (m multiRecorder) Record(ctx context.Context, change domain.StatusChange) error {
	var errs error
	for _, r := range m {
		errs = errors.Join(errs, r.Record(ctx, change))
	}
	return errs
}
