package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/memory"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	orderactivities "github.com/Apurer/dairy-storefront/internal/platform/temporal/activities/orders"
)

type countingPublisher struct {
	calls int
	err   error
}

func (p *countingPublisher) Record(context.Context, domain.StatusChange) error {
	p.calls++
	return p.err
}

func registerActivities(env *testsuite.TestWorkflowEnvironment, acts *orderactivities.Activities) {
	env.RegisterActivityWithOptions(acts.RecordStatusChange, activity.RegisterOptions{Name: orderactivities.RecordStatusChangeActivityName})
	env.RegisterActivityWithOptions(acts.PublishStatusChange, activity.RegisterOptions{Name: orderactivities.PublishStatusChangeActivityName})
}

func auditChange() domain.StatusChange {
	return domain.StatusChange{ID: "c1", OrderID: "o1", From: domain.StatusPending, To: domain.StatusShipped, Actor: "dairy-admin", OccurredAt: time.Date(2025, 4, 2, 8, 30, 0, 0, time.UTC)}
}

func TestStatusAuditWorkflow_RecordsAndPublishes(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	log := memory.NewAuditLog()
	publisher := &countingPublisher{}
	registerActivities(env, orderactivities.NewActivities(log, publisher))

	env.ExecuteWorkflow(StatusAuditWorkflow, StatusAuditWorkflowInput{Change: auditChange(), TraceID: "trace-1"})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
	changes, err := log.ListByOrder(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, domain.StatusShipped, changes[0].To)
	require.Equal(t, 1, publisher.calls)
}

func TestStatusAuditWorkflow_WithoutPublisher(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	log := memory.NewAuditLog()
	registerActivities(env, orderactivities.NewActivities(log, nil))

	env.ExecuteWorkflow(StatusAuditWorkflow, StatusAuditWorkflowInput{Change: auditChange()})

	require.True(t, env.IsWorkflowCompleted())
	require.NoError(t, env.GetWorkflowError())
}

func TestStatusAuditWorkflow_PublishFailureKeepsAuditEntry(t *testing.T) {
	var suite testsuite.WorkflowTestSuite
	env := suite.NewTestWorkflowEnvironment()
	log := memory.NewAuditLog()
	publisher := &countingPublisher{err: errors.New("broker unavailable")}
	registerActivities(env, orderactivities.NewActivities(log, publisher))

	env.ExecuteWorkflow(StatusAuditWorkflow, StatusAuditWorkflowInput{Change: auditChange()})

	require.True(t, env.IsWorkflowCompleted())
	require.Error(t, env.GetWorkflowError())
	require.Equal(t, 3, publisher.calls)
	changes, err := log.ListByOrder(context.Background(), "o1")
	require.NoError(t, err)
	require.Len(t, changes, 1)
}
