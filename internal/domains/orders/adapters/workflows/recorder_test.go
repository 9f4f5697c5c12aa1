package workflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/memory"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	orderworkflows "github.com/Apurer/dairy-storefront/internal/platform/temporal/workflows/orders"
)

type fakeStarter struct {
	options  []client.StartWorkflowOptions
	workflow []interface{}
	args     [][]interface{}
	err      error
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.options = append(f.options, options)
	f.workflow = append(f.workflow, workflow)
	f.args = append(f.args, args)
	return nil, f.err
}

func change() domain.StatusChange {
	return domain.StatusChange{ID: "c9", OrderID: "o7", From: domain.StatusProcessing, To: domain.StatusDelivered, Actor: "dairy-admin", OccurredAt: time.Now().UTC()}
}

func TestTemporalRecorder_StartsAuditWorkflow(t *testing.T) {
	starter := &fakeStarter{}
	recorder := NewTemporalRecorder(starter)

	require.NoError(t, recorder.Record(context.Background(), change()))
	require.Len(t, starter.options, 1)
	require.Equal(t, "order-status-audit-o7-c9", starter.options[0].ID)
	require.Equal(t, orderworkflows.StatusAuditTaskQueue, starter.options[0].TaskQueue)
	require.Equal(t, orderworkflows.StatusAuditWorkflowName, starter.workflow[0])
	input, ok := starter.args[0][0].(orderworkflows.StatusAuditWorkflowInput)
	require.True(t, ok)
	require.Equal(t, "o7", input.Change.OrderID)
}

func TestTemporalRecorder_DuplicateStartIsSuccess(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", "run-1")}
	require.NoError(t, NewTemporalRecorder(starter).Record(context.Background(), change()))
}

func TestTemporalRecorder_PropagatesStartFailure(t *testing.T) {
	cause := errors.New("frontend unavailable")
	err := NewTemporalRecorder(&fakeStarter{err: cause}).Record(context.Background(), change())
	require.ErrorIs(t, err, cause)
}

func TestInlineRecorder_AppendsToAuditLog(t *testing.T) {
	log := memory.NewAuditLog()
	require.NoError(t, NewInlineRecorder(log).Record(context.Background(), change()))

	changes, err := log.ListByOrder(context.Background(), "o7")
	require.NoError(t, err)
	require.Len(t, changes, 1)
}
