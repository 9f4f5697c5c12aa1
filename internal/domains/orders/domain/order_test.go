package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_StartsPending(t *testing.T) {
	items := []Item{{Name: "Greek yogurt", Quantity: 2, Price: decimal.RequireFromString("2.50")}}
	order, err := NewOrder("o-1", items, decimal.RequireFromString("5.00"), &CustomerInfo{Email: "c@d.com"}, time.Now())
	require.NoError(t, err)
	require.Equal(t, StatusPending, order.Status)

	items[0].Name = "changed"
	require.Equal(t, "Greek yogurt", order.Items[0].Name)
}

func TestNewOrder_RejectsInvalidLines(t *testing.T) {
	_, err := NewOrder("", nil, decimal.Zero, nil, time.Time{})
	require.ErrorIs(t, err, ErrEmptyID)

	_, err = NewOrder("o-2", []Item{{Name: "Kefir", Quantity: 0}}, decimal.Zero, nil, time.Time{})
	require.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = NewOrder("o-3", nil, decimal.NewFromInt(-1), nil, time.Time{})
	require.ErrorIs(t, err, ErrNegativeAmount)
}

func TestParseStatus(t *testing.T) {
	for _, status := range Statuses {
		parsed, err := ParseStatus(string(status))
		require.NoError(t, err)
		require.Equal(t, status, parsed)
	}
	_, err := ParseStatus("DELIVERED")
	require.ErrorIs(t, err, ErrInvalidStatus)
}

func TestClone_IsDeep(t *testing.T) {
	order := &Order{ID: "o-4", Status: StatusShipped, Items: []Item{{Name: "Butter", Quantity: 1}}, Customer: &CustomerInfo{FullName: "Bo"}}
	clone := order.Clone()
	clone.Items[0].Name = "Cheese"
	clone.Customer.FullName = "Other"
	clone.Status = StatusDelivered

	require.Equal(t, "Butter", order.Items[0].Name)
	require.Equal(t, "Bo", order.FullName())
	require.Equal(t, StatusShipped, order.Status)
}

func TestAccessors_TolerateMissingCustomer(t *testing.T) {
	order := &Order{ID: "o-5"}
	require.Empty(t, order.Email())
	require.Empty(t, order.FullName())
	var missing *Order
	require.Empty(t, missing.Email())
}
