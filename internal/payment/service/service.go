package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"leasehold/internal/audit"
	paymentmetrics "leasehold/internal/payment/metrics"
	"leasehold/internal/payment/models"
	id "leasehold/pkg/domain"
)

var tracer = otel.Tracer("leasehold/payment")

// Store is the persistence contract for the payment service. Append assigns
// the sequential payment ID atomically with the insert when the payment
// carries none.
type Store interface {
	Append(ctx context.Context, payment *models.Payment) error
	List(ctx context.Context) ([]*models.Payment, error)
	ByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Payment, error)
	Balance(ctx context.Context, tenantID id.TenantID) (float64, error)
}

// BalanceMirror receives balance adjustments for completed payments so an
// external cache can serve balance reads. Best-effort: mirror failures are
// logged, never surfaced.
type BalanceMirror interface {
	Adjust(ctx context.Context, tenantID id.TenantID, delta float64) error
}

// Config carries the payment policy knobs.
type Config struct {
	LateFeeRate          float64
	GracePeriodDays      int
	DefaultPaymentMethod string
}

type serviceConfig struct {
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *paymentmetrics.Metrics
	balanceMirror  BalanceMirror
}

// Option customizes optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(c *serviceConfig) { c.auditPublisher = publisher }
}

func WithMetrics(m *paymentmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func WithBalanceMirror(mirror BalanceMirror) Option {
	return func(c *serviceConfig) { c.balanceMirror = mirror }
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
