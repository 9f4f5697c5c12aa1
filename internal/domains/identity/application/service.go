package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/identity/ports"
)

// DefaultSessionTTL applies when no TTL is configured.
const DefaultSessionTTL = 12 * time.Hour

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid account input")
	// ErrAuthentication wraps authentication failures.
	ErrAuthentication = errors.New("authentication failed")
)

var _ ports.Service = (*Service)(nil)

// Service issues and resolves admin sessions.
type Service struct {
	users    ports.UserRepository
	sessions ports.SessionStore
	ttl      time.Duration
	now      func() time.Time
	newToken func() string
}

type Option func(*Service)

// WithSessionTTL overrides DefaultSessionTTL.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock overrides the time source for deterministic testing.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(users ports.UserRepository, sessions ports.SessionStore, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// EnsureUser creates the account when it does not exist yet. Existing accounts are left untouched.
func (s *Service) EnsureUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	existing, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}
	user, err := domain.NewUser(uuid.NewString(), username, password, role)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.users.Save(ctx, user)
}

// Login verifies credentials and stores a new session.
func (s *Service) Login(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return domain.Anonymous, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
	}
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return domain.Anonymous, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
		}
		return domain.Anonymous, err
	}
	if !user.CheckPassword(password) {
		return domain.Anonymous, fmt.Errorf("%w: %w", ErrAuthentication, ports.ErrInvalidCredentials)
	}
	session := domain.Session{
		Token:     s.newToken(),
		Username:  user.Username,
		Role:      user.Role,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return domain.Anonymous, err
	}
	return session, nil
}

// Logout forgets the session token. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil && !errors.Is(err, ports.ErrSessionNotFound) {
		return err
	}
	return nil
}

// Resolve maps a token to its session. Missing or expired tokens resolve to Anonymous.
func (s *Service) Resolve(ctx context.Context, token string) (domain.Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Anonymous, nil
	}
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, ports.ErrSessionNotFound) {
			return domain.Anonymous, nil
		}
		return domain.Anonymous, err
	}
	if !session.IsAuthenticated(s.now()) {
		return domain.Anonymous, nil
	}
	return session, nil
}
