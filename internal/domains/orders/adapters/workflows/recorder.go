package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/enums/v1"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/dairy-storefront/internal/platform/temporal/workflows/orders"
)

var (
	_ ports.StatusChangeRecorder = (*TemporalRecorder)(nil)
	_ ports.StatusChangeRecorder = (*InlineRecorder)(nil)
)

// WorkflowStarter is the subset of client.Client used to start audit workflows.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalRecorder starts the audit workflow on a Temporal cluster and does
// not wait for it to finish.
type TemporalRecorder struct {
	client    WorkflowStarter
	taskQueue string
}

// NewTemporalRecorder wires a Temporal client into the recorder.
func NewTemporalRecorder(c WorkflowStarter) *TemporalRecorder {
	return &TemporalRecorder{client: c, taskQueue: orderworkflows.StatusAuditTaskQueue}
}

// Record starts one workflow per change id. A duplicate start is treated as success.
func (r *TemporalRecorder) Record(ctx context.Context, change domain.StatusChange) error {
	if r == nil || r.client == nil {
		return errors.New("temporal status recorder not configured")
	}
	options := client.StartWorkflowOptions{
		ID:                    StatusAuditWorkflowID(change),
		TaskQueue:             r.taskQueue,
		WorkflowIDReusePolicy: enums.WORKFLOW_ID_REUSE_POLICY_REJECT_DUPLICATE,
	}
	_, err := r.client.ExecuteWorkflow(ctx, options, orderworkflows.StatusAuditWorkflowName,
		orderworkflows.StatusAuditWorkflowInput{Change: change, TraceID: workflowTraceID(ctx)})
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) {
			return nil
		}
		return err
	}
	return nil
}

// InlineRecorder appends directly to the audit log, useful for tests or dev fallbacks.
type InlineRecorder struct {
	log ports.AuditLog
}

func NewInlineRecorder(log ports.AuditLog) *InlineRecorder {
	return &InlineRecorder{log: log}
}

func (r *InlineRecorder) Record(ctx context.Context, change domain.StatusChange) error {
	if r == nil || r.log == nil {
		return errors.New("inline status recorder not configured")
	}
	return r.log.Append(ctx, change)
}

// StatusAuditWorkflowID is deterministic per change so retries reuse the workflow.
func StatusAuditWorkflowID(change domain.StatusChange) string {
	return fmt.Sprintf("order-status-audit-%s-%s", change.OrderID, change.ID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
