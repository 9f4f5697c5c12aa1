package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
)

var (
	// ErrFetch wraps every failure to load the order list.
	ErrFetch = errors.New("failed to load orders")
	// ErrUpdate wraps every failure to persist a status change.
	ErrUpdate = errors.New("failed to update order status")
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid order input")

	ErrUpdateInFlight = errors.New("a status update is already in flight")
	ErrAlreadyMounted = errors.New("order console is already mounted")
	ErrNotMounted     = errors.New("order console is not mounted")
	ErrOrderNotLoaded = errors.New("order is not part of the loaded list")
	ErrForbidden      = errors.New("admin session required")
)

// ErrorKind classifies the single user-visible error slot of the console.
type ErrorKind string

const (
	ErrorKindFetch         ErrorKind = "fetch"
	ErrorKindUpdate        ErrorKind = "update"
	ErrorKindInvalidStatus ErrorKind = "invalid_status"
)

// Message returns the generic text shown to the admin.
func (k ErrorKind) Message() string {
	switch k {
	case ErrorKindFetch:
		return "Failed to load orders"
	case ErrorKindUpdate:
		return "Failed to update order status"
	case ErrorKindInvalidStatus:
		return "Invalid order status"
	default:
		return ""
	}
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrInvalidStatus) || errors.Is(err, domain.ErrEmptyID) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
