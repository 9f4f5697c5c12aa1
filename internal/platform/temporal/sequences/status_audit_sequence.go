package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/dairy-storefront/internal/platform/temporal/activities/orders"
)

// RunStatusAuditSequence records a status change and then publishes it. A
// publish failure does not undo the audit entry.
func RunStatusAuditSequence(ctx workflow.Context, change domain.StatusChange) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("status audit sequence started", "orderId", change.OrderID, "changeId", change.ID)
	recordOptions := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	publishOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    5 * time.Second,
			MaximumAttempts:    3,
		},
	}

	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, recordOptions), orderactivities.RecordStatusChangeActivityName, change).Get(ctx, nil); err != nil {
		logger.Error("status audit sequence failed to record", "orderId", change.OrderID, "error", err)
		return err
	}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, publishOptions), orderactivities.PublishStatusChangeActivityName, change).Get(ctx, nil); err != nil {
		logger.Error("status audit sequence failed to publish", "orderId", change.OrderID, "error", err)
		return err
	}
	logger.Info("status audit sequence completed", "orderId", change.OrderID)
	return nil
}
