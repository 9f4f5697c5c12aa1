package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/dairy-storefront/internal/domains/orders/domain"
	"github.com/Apurer/dairy-storefront/internal/domains/orders/ports"
	platformobservability "github.com/Apurer/dairy-storefront/internal/platform/observability"
)

const tracerName = "github.com/Apurer/dairy-storefront/internal/domains/orders/adapters/observability/service"

var _ ports.QueryService = (*Service)(nil)

// Service decorates the order query service with tracing, logging, and metrics.
type Service struct {
	inner   ports.QueryService
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core query service.
func New(inner ports.QueryService, opts ...Option) *Service {
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
	return s
}

func (s *Service) FetchAllOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderQueryService.FetchAllOrders")
	defer span.End()

	s.logInfo(ctx, "fetching orders")
	orders, err := s.inner.FetchAllOrders(ctx)
	s.metrics.recordFetch(ctx, err)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to fetch orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	s.logInfo(ctx, "orders fetched", slog.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) SetOrderStatus(ctx context.Context, orderID string, status domain.Status) error {
	ctx, span := s.tracer.Start(ctx, "OrderQueryService.SetOrderStatus",
		trace.WithAttributes(attribute.String("order.id", orderID), attribute.String("order.status", string(status))))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", orderID), slog.String("order.status", string(status)))
	err := s.inner.SetOrderStatus(ctx, orderID, status)
	s.metrics.recordStatusUpdate(ctx, status, err)
	if err != nil {
		return s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", orderID))
	}
	s.logInfo(ctx, "order status updated", slog.String("order.id", orderID), slog.String("order.status", string(status)))
	return nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	fetches       metric.Int64Counter
	statusUpdates metric.Int64Counter
	failures      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	fetches, _ := m.Int64Counter("orders.query.fetches", metric.WithDescription("Number of full order list reads"))
	statusUpdates, _ := m.Int64Counter("orders.query.status_updates", metric.WithDescription("Number of accepted order status writes"))
	failures, _ := m.Int64Counter("orders.query.failures", metric.WithDescription("Number of failed order store calls"))
	return serviceMetrics{fetches: fetches, statusUpdates: statusUpdates, failures: failures}
}

func (m serviceMetrics) recordFetch(ctx context.Context, err error) {
	if err != nil {
		m.recordFailure(ctx, "fetch")
		return
	}
	if m.fetches != nil {
		m.fetches.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordStatusUpdate(ctx context.Context, status domain.Status, err error) {
	if err != nil {
		m.recordFailure(ctx, "update")
		return
	}
	if m.statusUpdates != nil {
		m.statusUpdates.Add(ctx, 1, metric.WithAttributes(attribute.String("order.status", string(status))))
	}
}

func (m serviceMetrics) recordFailure(ctx context.Context, op string) {
	if m.failures != nil {
		m.failures.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", op)))
	}
}
