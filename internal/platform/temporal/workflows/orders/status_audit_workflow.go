package orders

import (
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/platform/temporal/sequences"
)

const (
	// StatusAuditWorkflowName is the public identifier for registering the workflow.
	StatusAuditWorkflowName = "orders.workflows.StatusChangeAudit"
	// StatusAuditTaskQueue is the queue consumed by the worker processing audit workflows.
	StatusAuditTaskQueue = "ORDER_STATUS_AUDIT"
)

// StatusAuditWorkflowInput carries one accepted status change.
type StatusAuditWorkflowInput struct {
	Change  domain.StatusChange
	TraceID string
}

// StatusAuditWorkflow durably records a status change after the store write succeeded.
func StatusAuditWorkflow(ctx workflow.Context, input StatusAuditWorkflowInput) error {
	logger := workflow.GetLogger(ctx)
	logger.Info("StatusAuditWorkflow started", withTraceID(input.TraceID, "orderId", input.Change.OrderID)...)
	if err := sequences.RunStatusAuditSequence(ctx, input.Change); err != nil {
		logger.Error("StatusAuditWorkflow failed", withTraceID(input.TraceID, "orderId", input.Change.OrderID, "error", err)...)
		return err
	}
	logger.Info("StatusAuditWorkflow completed", withTraceID(input.TraceID, "orderId", input.Change.OrderID)...)
	return nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
