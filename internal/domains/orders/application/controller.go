package application

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	identitydomain "github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

// Controller holds the admin console state for one session: the canonical
// order list, the filtered view derived from it, the detail selection and a
// single error slot. All state transitions go through its methods.
type Controller struct {
	session  identitydomain.Session
	service  ports.QueryService
	recorder ports.StatusChangeRecorder
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	generation   uint64
	mounted      bool
	orders       []*domain.Order
	filtered     []*domain.Order
	statusFilter domain.StatusFilter
	searchTerm   string
	selected     *domain.Order
	updating     bool
	errKind      *ErrorKind
}

type ControllerOption func(*Controller)

func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRecorder receives every accepted status change.
func WithRecorder(recorder ports.StatusChangeRecorder) ControllerOption {
	return func(c *Controller) {
		if recorder != nil {
			c.recorder = recorder
		}
	}
}

func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// NewController binds a console to an explicit admin session.
func NewController(session identitydomain.Session, service ports.QueryService, opts ...ControllerOption) (*Controller, error) {
	if !session.IsAdmin() {
		return nil, ErrForbidden
	}
	c := &Controller{
		session:      session,
		service:      service,
		recorder:     ports.NoopRecorder,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:          time.Now,
		statusFilter: domain.StatusFilterAll,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// Session returns the session the console was opened with.
func (c *Controller) Session() identitydomain.Session {
	return c.session
}

// Mount loads the order list once. A failed load leaves the list empty and
// sets the fetch error; there is no retry.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return ErrAlreadyMounted
	}
	c.mounted = true
	gen := c.generation
	c.mu.Unlock()

	orders, err := c.service.FetchAllOrders(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return ErrNotMounted
	}
	if err != nil {
		c.orders = nil
		c.refilter()
		c.setError(ErrorKindFetch)
		c.logger.LogAttrs(ctx, slog.LevelError, "order console failed to load orders",
			slog.String("session.user", c.session.Username), slog.String("error", err.Error()))
		return err
	}
	c.orders = domain.CloneAll(orders)
	c.errKind = nil
	c.refilter()
	c.logger.LogAttrs(ctx, slog.LevelInfo, "order console mounted",
		slog.String("session.user", c.session.Username), slog.Int("orders.count", len(c.orders)))
	return nil
}

// Unmount drops all state. Requests still running when it is called have
// their results discarded.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.mounted = false
	c.orders = nil
	c.filtered = nil
	c.selected = nil
	c.updating = false
	c.errKind = nil
	c.statusFilter = domain.StatusFilterAll
	c.searchTerm = ""
}

// SetStatusFilter changes the active status filter and recomputes the view.
func (c *Controller) SetStatusFilter(filter domain.StatusFilter) error {
	if filter != domain.StatusFilterAll && !domain.Status(filter).Valid() {
		return mapError(domain.ErrInvalidStatus)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statusFilter = filter
	c.refilter()
	return nil
}

// SetSearchTerm changes the free-text search and recomputes the view.
func (c *Controller) SetSearchTerm(term string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.searchTerm = term
	c.refilter()
}

// SelectOrder opens the detail view on a copy of a loaded order.
func (c *Controller) SelectOrder(orderID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	order := c.find(orderID)
	if order == nil {
		return ErrOrderNotLoaded
	}
	c.selected = order.Clone()
	return nil
}

func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = nil
}

// DismissError empties the error slot.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errKind = nil
}

// RequestStatusUpdate writes a new status for a loaded order. Only one update
// may be in flight; a request observed while another is running is refused
// without reaching the store. On success the canonical list and the selection
// are patched in place and no re-fetch happens.
func (c *Controller) RequestStatusUpdate(ctx context.Context, orderID string, status domain.Status) error {
	c.mu.Lock()
	if !c.mounted {
		c.mu.Unlock()
		return ErrNotMounted
	}
	if c.updating {
		c.mu.Unlock()
		return ErrUpdateInFlight
	}
	if !status.Valid() {
		c.setError(ErrorKindInvalidStatus)
		c.mu.Unlock()
		return mapError(domain.ErrInvalidStatus)
	}
	order := c.find(orderID)
	if order == nil {
		c.setError(ErrorKindUpdate)
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrOrderNotLoaded, orderID)
	}
	from := order.Status
	c.updating = true
	gen := c.generation
	c.mu.Unlock()

	err := c.service.SetOrderStatus(ctx, orderID, status)

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return ErrNotMounted
	}
	c.updating = false
	if err != nil {
		c.setError(ErrorKindUpdate)
		c.mu.Unlock()
		c.logger.LogAttrs(ctx, slog.LevelError, "order status update failed",
			slog.String("order.id", orderID), slog.String("order.status", string(status)), slog.String("error", err.Error()))
		return err
	}
	if current := c.find(orderID); current != nil {
		current.Status = status
	}
	if c.selected != nil && c.selected.ID == orderID {
		c.selected.Status = status
	}
	c.refilter()
	change := domain.StatusChange{
		ID:         uuid.NewString(),
		OrderID:    orderID,
		From:       from,
		To:         status,
		Actor:      c.session.Username,
		OccurredAt: c.now().UTC(),
	}
	c.mu.Unlock()

	c.logger.LogAttrs(ctx, slog.LevelInfo, "order status updated",
		slog.String("order.id", orderID), slog.String("order.status.from", string(from)), slog.String("order.status.to", string(status)))
	if err := c.recorder.Record(ctx, change); err != nil {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "failed to record order status change",
			slog.String("order.id", orderID), slog.String("error", err.Error()))
	}
	return nil
}

// View is a read-only snapshot of the console.
type View struct {
	Mounted      bool
	Orders       []*domain.Order
	Statistics   domain.Statistics
	StatusFilter domain.StatusFilter
	SearchTerm   string
	Selected     *domain.Order
	Updating     bool
	Error        ErrorKind
}

// ErrorMessage returns the user-visible error text, empty when none is set.
func (v View) ErrorMessage() string {
	return v.Error.Message()
}

// View returns copies of the current state. Statistics always cover the
// canonical list regardless of the active filters.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	view := View{
		Mounted:      c.mounted,
		Orders:       domain.CloneAll(c.filtered),
		Statistics:   domain.Aggregate(c.orders),
		StatusFilter: c.statusFilter,
		SearchTerm:   c.searchTerm,
		Selected:     c.selected.Clone(),
		Updating:     c.updating,
	}
	if c.errKind != nil {
		view.Error = *c.errKind
	}
	return view
}

func (c *Controller) refilter() {
	c.filtered = domain.Filter(c.orders, c.statusFilter, c.searchTerm)
}

func (c *Controller) setError(kind ErrorKind) {
	c.errKind = &kind
}

func (c *Controller) find(orderID string) *domain.Order {
	for _, order := range c.orders {
		if order.ID == orderID {
			return order
		}
	}
	return nil
}
