package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/dairy-storefront/internal/domains/identity/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/identity/ports"
	platformobservability "github.com/Apurer/dairy-storefront/internal/platform/observability"
)

const tracerName = "github.com/Apurer/dairy-storefront/internal/domains/identity/adapters/observability/service"

var _ ports.Service = (*Service)(nil)

// Service decorates the session service with tracing, logging, and metrics.
// Tokens and passwords are never logged.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core session service.
func New(inner ports.Service, opts ...Option) *Service {
	s := &Service{
		inner:   inner,
		logger:  platformobservability.DiscardLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if s.logger == nil {
		s.logger = platformobservability.DiscardLogger()
	}
	return s
}

func (s *Service) Login(ctx context.Context, username, password string) (domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Login", trace.WithAttributes(attribute.String("user.username", username)))
	defer span.End()
	session, err := s.inner.Login(ctx, username, password)
	if err != nil {
		s.metrics.recordLogin(ctx, false)
		return session, s.handleError(ctx, span, err, "login failed", slog.String("username", username))
	}
	s.metrics.recordLogin(ctx, true)
	span.SetAttributes(attribute.String("user.role", string(session.Role)))
	s.logger.LogAttrs(ctx, slog.LevelInfo, "user logged in",
		slog.String("username", session.Username), slog.String("role", string(session.Role)))
	return session, nil
}

func (s *Service) Logout(ctx context.Context, token string) error {
	ctx, span := s.tracer.Start(ctx, "SessionService.Logout")
	defer span.End()
	if err := s.inner.Logout(ctx, token); err != nil {
		return s.handleError(ctx, span, err, "logout failed")
	}
	return nil
}

func (s *Service) Resolve(ctx context.Context, token string) (domain.Session, error) {
	ctx, span := s.tracer.Start(ctx, "SessionService.Resolve")
	defer span.End()
	session, err := s.inner.Resolve(ctx, token)
	if err != nil {
		return session, s.handleError(ctx, span, err, "session lookup failed")
	}
	span.SetAttributes(attribute.Bool("session.authenticated", session.Token != ""))
	return session, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

type serviceMetrics struct {
	logins metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	logins, _ := m.Int64Counter("identity.logins")
	return serviceMetrics{logins: logins}
}

func (m serviceMetrics) recordLogin(ctx context.Context, ok bool) {
	if m.logins == nil {
		return
	}
	m.logins.Add(ctx, 1, metric.WithAttributes(attribute.Bool("success", ok)))
}
