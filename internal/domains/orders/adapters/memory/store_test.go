package memory

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

func TestStore_KeepsInsertionOrderAndReturnsCopies(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	require.NoError(t, store.Insert(ctx,
		&domain.Order{ID: "b", Status: domain.StatusPending},
		&domain.Order{ID: "a", Status: domain.StatusShipped},
	))

	orders, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "b", orders[0].ID)
	require.Equal(t, "a", orders[1].ID)

	orders[0].Status = domain.StatusCancelled
	again, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusPending, again[0].Status)
}

func TestStore_UpdateStatusTouchesOnlyStatus(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	original := &domain.Order{ID: "o1", Status: domain.StatusPending, Items: []domain.Item{{Name: "Kefir", Quantity: 1}}, Customer: &domain.CustomerInfo{Email: "k@f.ir"}}
	require.NoError(t, store.Insert(ctx, original))

	require.NoError(t, store.UpdateStatus(ctx, "o1", domain.StatusDelivered))
	orders, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, orders[0].Status)
	require.Equal(t, original.Items, orders[0].Items)
	require.Equal(t, "k@f.ir", orders[0].Email())

	require.ErrorIs(t, store.UpdateStatus(ctx, "missing", domain.StatusShipped), ports.ErrNotFound)
}

func TestStore_InsertRejectsMissingID(t *testing.T) {
	require.ErrorIs(t, NewStore().Insert(context.Background(), &domain.Order{}), ports.ErrMalformedRecord)
}

func TestDemoOrders_AreValid(t *testing.T) {
	fake := faker.NewWithSeed(rand.NewSource(42))
	orders := DemoOrders(fake, 25, time.Now())
	require.Len(t, orders, 25)

	seen := map[string]bool{}
	for _, order := range orders {
		require.NoError(t, order.Validate())
		require.True(t, order.Status.Valid())
		require.NotEmpty(t, order.Items)
		require.False(t, seen[order.ID], "duplicate id %s", order.ID)
		seen[order.ID] = true
	}
}

func TestAuditLog_AppendIsIdempotentAndOrdered(t *testing.T) {
	log := NewAuditLog()
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	second := domain.StatusChange{ID: "c2", OrderID: "o1", From: domain.StatusProcessing, To: domain.StatusShipped, OccurredAt: base.Add(time.Hour)}
	first := domain.StatusChange{ID: "c1", OrderID: "o1", From: domain.StatusPending, To: domain.StatusProcessing, OccurredAt: base}

	require.NoError(t, log.Append(ctx, second))
	require.NoError(t, log.Append(ctx, first))
	require.NoError(t, log.Append(ctx, first))

	changes, err := log.ListByOrder(ctx, "o1")
	require.NoError(t, err)
	require.Equal(t, []domain.StatusChange{first, second}, changes)

	empty, err := log.ListByOrder(ctx, "o2")
	require.NoError(t, err)
	require.Empty(t, empty)
}
