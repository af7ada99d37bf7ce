package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-orders/internal/domains/orders/application"
	"github.com/Apurer/storefront-orders/internal/domains/orders/application/types"
	"github.com/Apurer/storefront-orders/internal/domains/orders/domain"
	"github.com/Apurer/storefront-orders/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/observability/service"

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
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
		s.logger = defaultLogger()
	}
	return s
}

// ConvertCart records the outcome of every conversion attempt.
func (s *Service) ConvertCart(ctx context.Context, input types.ConvertCartInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.ConvertCart",
		attribute.Int64("cart.id", input.CartID),
		attribute.Bool("idempotency.key_present", input.IdempotencyKey != ""),
	)
	defer span.End()

	s.logInfo(ctx, "converting cart", slog.Int64("cart.id", input.CartID))
	order, err := s.inner.ConvertCart(ctx, input)
	if err != nil {
		s.metrics.recordConversion(ctx, outcomeOf(err))
		return nil, s.handleError(ctx, span, err, "failed to convert cart", conversionFailureAttrs(input.CartID, err)...)
	}
	s.metrics.recordConversion(ctx, "placed")
	span.SetAttributes(attribute.Int64("order.id", order.ID), attribute.String("order.total", order.TotalAmount.String()))
	s.logInfo(ctx, "cart converted",
		slog.Int64("cart.id", input.CartID),
		slog.Int64("order.id", order.ID),
		slog.String("order.total", order.TotalAmount.String()),
		slog.Int("order.items", len(order.Items)))
	return order, nil
}

func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder", attribute.Int64("user.id", input.UserID))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int64("user.id", input.UserID))
	order, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.Int64("user.id", input.UserID))
	}
	s.logInfo(ctx, "order created", slog.Int64("order.id", order.ID))
	return order, nil
}

func (s *Service) UpdateShipping(ctx context.Context, input types.UpdateShippingInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.UpdateShipping", attribute.Int64("order.id", input.OrderID))
	defer span.End()

	order, err := s.inner.UpdateShipping(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update shipping", slog.Int64("order.id", input.OrderID))
	}
	s.logInfo(ctx, "shipping updated", slog.Int64("order.id", order.ID))
	return order, nil
}

func (s *Service) DeleteOrder(ctx context.Context, id int64) error {
	ctx, span := s.startSpan(ctx, "Service.DeleteOrder", attribute.Int64("order.id", id))
	defer span.End()

	if err := s.inner.DeleteOrder(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.Int64("order.id", id))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.Int64("order.id", id))
	return nil
}

func (s *Service) GetOrderByID(ctx context.Context, id int64) (*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrderByID", attribute.Int64("order.id", id))
	defer span.End()

	view, err := s.inner.GetOrderByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return view, nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.ListOrders")
	defer span.End()
	return s.finishList(ctx, span, "list orders")(s.inner.ListOrders(ctx))
}

func (s *Service) ListByUserEmail(ctx context.Context, email string) ([]*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByUserEmail")
	defer span.End()
	return s.finishList(ctx, span, "list orders by user email")(s.inner.ListByUserEmail(ctx, email))
}

func (s *Service) ListByDateRange(ctx context.Context, start, end time.Time) ([]*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByDateRange",
		attribute.String("range.start", start.Format(time.DateOnly)),
		attribute.String("range.end", end.Format(time.DateOnly)))
	defer span.End()
	return s.finishList(ctx, span, "list orders by date range")(s.inner.ListByDateRange(ctx, start, end))
}

func (s *Service) FilterOrders(ctx context.Context, filter types.OrderFilter) ([]*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.FilterOrders")
	defer span.End()
	return s.finishList(ctx, span, "filter orders")(s.inner.FilterOrders(ctx, filter))
}

func (s *Service) MostRecent(ctx context.Context, n int) ([]*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.MostRecent", attribute.Int("limit", n))
	defer span.End()
	return s.finishList(ctx, span, "list most recent orders")(s.inner.MostRecent(ctx, n))
}

func (s *Service) ListByProductID(ctx context.Context, productID int64) ([]*types.OrderView, error) {
	ctx, span := s.startSpan(ctx, "Service.ListByProductID", attribute.Int64("product.id", productID))
	defer span.End()
	return s.finishList(ctx, span, "list orders by product")(s.inner.ListByProductID(ctx, productID))
}

func (s *Service) RevenueByDateRange(ctx context.Context, start, end time.Time) ([]types.DailyRevenue, error) {
	ctx, span := s.startSpan(ctx, "Service.RevenueByDateRange",
		attribute.String("range.start", start.Format(time.DateOnly)),
		attribute.String("range.end", end.Format(time.DateOnly)))
	defer span.End()

	revenue, err := s.inner.RevenueByDateRange(ctx, start, end)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to compute revenue")
	}
	span.SetAttributes(attribute.Int("revenue.days", len(revenue)))
	return revenue, nil
}

func (s *Service) finishList(ctx context.Context, span trace.Span, what string) func([]*types.OrderView, error) ([]*types.OrderView, error) {
	return func(views []*types.OrderView, err error) ([]*types.OrderView, error) {
		if err != nil {
			return nil, s.handleError(ctx, span, err, "failed to "+what)
		}
		span.SetAttributes(attribute.Int("order.result.count", len(views)))
		return views, nil
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, application.ErrInsufficientInventory):
		return "insufficient_inventory"
	case errors.Is(err, application.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, application.ErrNotFound):
		return "not_found"
	case errors.Is(err, ports.ErrIdempotencyConflict):
		return "idempotency_conflict"
	default:
		return "error"
	}
}

func conversionFailureAttrs(cartID int64, err error) []slog.Attr {
	attrs := []slog.Attr{slog.Int64("cart.id", cartID)}
	var shortage *application.InsufficientInventoryError
	if errors.As(err, &shortage) {
		attrs = append(attrs,
			slog.Int64("product.id", shortage.ProductID),
			slog.Int("available", int(shortage.Available)),
			slog.Int("requested", int(shortage.Requested)))
	}
	return attrs
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	conversions   metric.Int64Counter
	ordersDeleted metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	conversions, _ := m.Int64Counter("orders.service.conversions", metric.WithDescription("Cart conversions by outcome"))
	ordersDeleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	return serviceMetrics{conversions: conversions, ordersDeleted: ordersDeleted}
}

func (m serviceMetrics) recordConversion(ctx context.Context, outcome string) {
	addCounter(ctx, m.conversions, 1, attribute.String("outcome", outcome))
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	addCounter(ctx, m.ordersDeleted, 1)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}

var _ ports.Service = (*Service)(nil)
