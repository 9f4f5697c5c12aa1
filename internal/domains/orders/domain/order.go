package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates the order lifecycle.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCancelled  Status = "Cancelled"
)

// Statuses lists every known status in lifecycle order.
var Statuses = []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

var (
	ErrInvalidStatus   = errors.New("order status is invalid")
	ErrEmptyID         = errors.New("order id is required")
	ErrInvalidQuantity = errors.New("item quantity must be greater than zero")
	ErrNegativeAmount  = errors.New("amount must not be negative")
)

// Valid reports whether the status belongs to the enumeration.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus accepts only exact enumeration values.
func ParseStatus(raw string) (Status, error) {
	status := Status(raw)
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Item is a single order line.
type Item struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// CustomerInfo carries contact details captured at checkout. Empty fields are absent.
type CustomerInfo struct {
	FullName string
	Email    string
	Phone    string
	Address  string
}

// Order models a customer purchase as loaded from the order store.
type Order struct {
	ID        string
	Status    Status
	Items     []Item
	Total     decimal.Decimal
	Customer  *CustomerInfo
	CreatedAt time.Time
}

// NewOrder builds a pending order. Used by seeding and tests; checkout owns real creation.
func NewOrder(id string, items []Item, total decimal.Decimal, customer *CustomerInfo, createdAt time.Time) (*Order, error) {
	order := &Order{
		ID:        id,
		Status:    StatusPending,
		Items:     append([]Item(nil), items...),
		Total:     total,
		Customer:  customer.Clone(),
		CreatedAt: createdAt,
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces the invariants checkout guarantees for new orders.
func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyID
	}
	if !o.Status.Valid() {
		return ErrInvalidStatus
	}
	if o.Total.IsNegative() {
		return ErrNegativeAmount
	}
	for _, item := range o.Items {
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return ErrNegativeAmount
		}
	}
	return nil
}

// Email returns the customer email or "" when no customer info was recorded.
func (o *Order) Email() string {
	if o == nil || o.Customer == nil {
		return ""
	}
	return o.Customer.Email
}

// FullName returns the customer name or "" when no customer info was recorded.
func (o *Order) FullName() string {
	if o == nil || o.Customer == nil {
		return ""
	}
	return o.Customer.FullName
}

// Clone returns a deep copy so callers cannot alias canonical state.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]Item(nil), o.Items...)
	clone.Customer = o.Customer.Clone()
	return &clone
}

// Clone copies customer info; nil stays nil.
func (c *CustomerInfo) Clone() *CustomerInfo {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}

// CloneAll deep-copies a list of orders, skipping nil entries.
func CloneAll(orders []*Order) []*Order {
	out := make([]*Order, 0, len(orders))
	for _, order := range orders {
		if order == nil {
			continue
		}
		out = append(out, order.Clone())
	}
	return out
}
