package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

const (
	// RecordStatusChangeActivityName appends a change to the audit log.
	RecordStatusChangeActivityName = "orders.activities.RecordStatusChange"
	// PublishStatusChangeActivityName forwards a change to downstream consumers.
	PublishStatusChangeActivityName = "orders.activities.PublishStatusChange"
)

// Activities groups the status audit activities.
type Activities struct {
	auditLog  ports.AuditLog
	publisher ports.StatusChangeRecorder
}

// NewActivities wires the audit log and an optional publisher.
func NewActivities(auditLog ports.AuditLog, publisher ports.StatusChangeRecorder) *Activities {
	return &Activities{auditLog: auditLog, publisher: publisher}
}

// RecordStatusChange stores the change. Append is idempotent on the change id,
// so retries never duplicate entries.
func (a *Activities) RecordStatusChange(ctx context.Context, change domain.StatusChange) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.auditLog == nil {
		logger.Error("status audit activity not initialized", "orderId", change.OrderID)
		return errors.New("status audit activity not initialized")
	}
	logger.Info("RecordStatusChange activity started", "orderId", change.OrderID, "changeId", change.ID)
	if err := a.auditLog.Append(ctx, change); err != nil {
		logger.Error("RecordStatusChange activity failed", "orderId", change.OrderID, "error", err)
		return err
	}
	logger.Info("RecordStatusChange activity completed", "orderId", change.OrderID, "to", string(change.To))
	return nil
}

// PublishStatusChange is a no-op when no publisher is configured.
func (a *Activities) PublishStatusChange(ctx context.Context, change domain.StatusChange) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.publisher == nil {
		logger.Info("status publisher not configured; skipping", "orderId", change.OrderID)
		return nil
	}
	if err := a.publisher.Record(ctx, change); err != nil {
		logger.Error("PublishStatusChange activity failed", "orderId", change.OrderID, "error", err)
		return err
	}
	logger.Info("PublishStatusChange activity completed", "orderId", change.OrderID)
	return nil
}
