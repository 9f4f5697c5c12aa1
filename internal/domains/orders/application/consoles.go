package application

import (
	"context"
	"errors"
	"sync"

	identitydomain "github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
)

// Consoles keeps one mounted Controller per admin session token.
type Consoles struct {
	service ports.QueryService
	opts    []ControllerOption

	mu       sync.Mutex
	consoles map[string]*Controller
}

func NewConsoles(service ports.QueryService, opts ...ControllerOption) *Consoles {
	return &Consoles{
		service:  service,
		opts:     opts,
		consoles: map[string]*Controller{},
	}
}

// Open mounts a fresh console for the session, replacing any previous one.
// A failed order load is not an error here; it is reported through the view.
func (r *Consoles) Open(ctx context.Context, session identitydomain.Session) (*Controller, error) {
	controller, err := NewController(session, r.service, r.opts...)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	previous := r.consoles[session.Token]
	r.consoles[session.Token] = controller
	r.mu.Unlock()
	if previous != nil {
		previous.Unmount()
	}

	if err := controller.Mount(ctx); err != nil && !errors.Is(err, ErrFetch) {
		return nil, err
	}
	return controller, nil
}

// Get returns the console mounted for the token.
func (r *Consoles) Get(token string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	controller, ok := r.consoles[token]
	if !ok {
		return nil, ErrNotMounted
	}
	return controller, nil
}

// Close unmounts and forgets the console of the token.
func (r *Consoles) Close(token string) {
	r.mu.Lock()
	controller, ok := r.consoles[token]
	delete(r.consoles, token)
	r.mu.Unlock()
	if ok {
		controller.Unmount()
	}
}
