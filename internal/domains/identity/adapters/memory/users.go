package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/identity/ports"
)

var _ ports.UserRepository = (*UserRepository)(nil)

// UserRepository is an in-memory account store.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: map[string]domain.User{}}
}

func (r *UserRepository) Save(_ context.Context, user *domain.User) (*domain.User, error) {
	if user == nil {
		return nil, errors.New("user is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.Username] = *user
	clone := *user
	return &clone, nil
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[username]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &user, nil
}
