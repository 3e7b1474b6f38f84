package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/storefront-cart/internal/domains/cart/domain"
	"github.com/Apurer/storefront-cart/internal/domains/cart/ports"
)

const tracerName = "github.com/Apurer/storefront-cart/internal/domains/cart/adapters/observability/service"

// Service decorates a session cart store with tracing, logging, and metrics.
type Service struct {
	inner     ports.Service
	sessionID string
	tracer    trace.Tracer
	logger    *slog.Logger
	metrics   serviceMetrics
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

// New wraps the store of one session.
func New(sessionID string, inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:     inner,
		sessionID: sessionID,
		tracer:    nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   newServiceMetrics(nil),
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

func (s *Service) Restore(ctx context.Context) (domain.RestoreOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "CartStore.Restore", trace.WithAttributes(s.sessionAttr()))
	defer span.End()

	result, err := s.inner.Restore(ctx)
	span.SetAttributes(attribute.String("cart.restore", string(result)))
	if result != domain.RestoreSkipped {
		s.metrics.recordRestoration(ctx, string(result))
	}
	if err != nil {
		return result, s.handleError(ctx, span, err, "failed to restore cart", s.sessionLogAttr())
	}
	if result == domain.RestoreSkipped {
		return result, nil
	}
	snap := s.inner.Snapshot()
	span.SetAttributes(attribute.String("cart.state", string(snap.State)), attribute.Int("cart.total_quantity", snap.ItemCount()))
	s.logInfo(ctx, "cart restoration finished", s.sessionLogAttr(), slog.String("cart.restore", string(result)),
		slog.String("cart.state", string(snap.State)), slog.Int("cart.total_quantity", snap.ItemCount()))
	return result, nil
}

func (s *Service) AddItem(ctx context.Context, variantID string, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.AddItem",
		trace.WithAttributes(s.sessionAttr(), attribute.String("cart.variant_id", variantID), attribute.Int("cart.quantity", quantity)))
	defer span.End()

	s.logInfo(ctx, "adding item to cart", s.sessionLogAttr(), slog.String("cart.variant_id", variantID), slog.Int("cart.quantity", quantity))
	err := s.inner.AddItem(ctx, variantID, quantity)
	return s.finishMutation(ctx, span, "add", err, slog.String("cart.variant_id", variantID))
}

func (s *Service) UpdateQuantity(ctx context.Context, lineID string, quantity int) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.UpdateQuantity",
		trace.WithAttributes(s.sessionAttr(), attribute.String("cart.line_id", lineID), attribute.Int("cart.quantity", quantity)))
	defer span.End()

	s.logInfo(ctx, "updating cart line", s.sessionLogAttr(), slog.String("cart.line_id", lineID), slog.Int("cart.quantity", quantity))
	err := s.inner.UpdateQuantity(ctx, lineID, quantity)
	return s.finishMutation(ctx, span, "update", err, slog.String("cart.line_id", lineID))
}

func (s *Service) RemoveItem(ctx context.Context, lineID string) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.RemoveItem",
		trace.WithAttributes(s.sessionAttr(), attribute.String("cart.line_id", lineID)))
	defer span.End()

	s.logInfo(ctx, "removing cart line", s.sessionLogAttr(), slog.String("cart.line_id", lineID))
	err := s.inner.RemoveItem(ctx, lineID)
	return s.finishMutation(ctx, span, "remove", err, slog.String("cart.line_id", lineID))
}

func (s *Service) DecrementOrRemove(ctx context.Context, lineID string, currentQuantity, delta int) error {
	ctx, span := s.tracer.Start(ctx, "CartStore.DecrementOrRemove",
		trace.WithAttributes(s.sessionAttr(), attribute.String("cart.line_id", lineID),
			attribute.Int("cart.current_quantity", currentQuantity), attribute.Int("cart.delta", delta)))
	defer span.End()

	s.logInfo(ctx, "adjusting cart line", s.sessionLogAttr(), slog.String("cart.line_id", lineID), slog.Int("cart.delta", delta))
	err := s.inner.DecrementOrRemove(ctx, lineID, currentQuantity, delta)
	return s.finishMutation(ctx, span, "adjust", err, slog.String("cart.line_id", lineID))
}

func (s *Service) OpenCart()                 { s.inner.OpenCart() }
func (s *Service) CloseCart()                { s.inner.CloseCart() }
func (s *Service) ItemCount() int            { return s.inner.ItemCount() }
func (s *Service) Snapshot() domain.Snapshot { return s.inner.Snapshot() }

func (s *Service) Close() {
	s.inner.Close()
	s.logInfo(context.Background(), "cart session closed", s.sessionLogAttr())
}

// finishMutation records the outcome. A success that leaves no cart behind was a
// no-op on a session without a cart.
func (s *Service) finishMutation(ctx context.Context, span trace.Span, op string, err error, attrs ...slog.Attr) error {
	attrs = append(attrs, s.sessionLogAttr())
	if err != nil {
		s.metrics.recordMutation(ctx, op, outcome(err))
		return s.handleError(ctx, span, err, "cart "+op+" failed", attrs...)
	}
	if s.inner.Snapshot().Cart == nil {
		s.metrics.recordMutation(ctx, op, "noop")
		span.SetAttributes(attribute.String("cart.outcome", "noop"))
		s.logInfo(ctx, "cart "+op+" skipped, no cart", attrs...)
		return nil
	}
	s.metrics.recordMutation(ctx, op, outcome(err))
	total := s.inner.ItemCount()
	span.SetAttributes(attribute.Int("cart.total_quantity", total))
	s.logInfo(ctx, "cart "+op+" applied", append(attrs, slog.Int("cart.total_quantity", total))...)
	return nil
}

func (s *Service) sessionAttr() attribute.KeyValue {
	return attribute.String("session.id", s.sessionID)
}

func (s *Service) sessionLogAttr() slog.Attr {
	return slog.String("session.id", s.sessionID)
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, level slog.Level, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, level, msg, attrs...)
}

// handleError records err on the span. Rejections caused by the shopper log at warn.
func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("cart.outcome", outcome(err)))
	}
	level := slog.LevelError
	if errors.Is(err, domain.ErrValidationRejected) || errors.Is(err, domain.ErrInvalidArgument) {
		level = slog.LevelWarn
	}
	s.logError(ctx, level, msg, err, attrs...)
	return err
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrCartNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrValidationRejected):
		return "rejected"
	case errors.Is(err, domain.ErrInvalidArgument):
		return "invalid"
	case errors.Is(err, domain.ErrRemoteUnavailable):
		return "unavailable"
	case errors.Is(err, domain.ErrSessionClosed):
		return "closed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "error"
	}
}

type serviceMetrics struct {
	mutations    metric.Int64Counter
	restorations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.store.mutations", metric.WithDescription("Number of cart mutations by operation and outcome"))
	restorations, _ := m.Int64Counter("cart.store.restorations", metric.WithDescription("Number of cart restorations by outcome"))
	return serviceMetrics{mutations: mutations, restorations: restorations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, op, outcome string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.operation", op), attribute.String("cart.outcome", outcome)))
	}
}

func (m serviceMetrics) recordRestoration(ctx context.Context, outcome string) {
	if m.restorations != nil {
		m.restorations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.outcome", outcome)))
	}
}

var _ ports.Service = (*Service)(nil)
