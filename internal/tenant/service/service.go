package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"leasehold/internal/audit"
	paymentmodels "leasehold/internal/payment/models"
	"leasehold/internal/tenant/models"
	id "leasehold/pkg/domain"
)

var tracer = otel.Tracer("leasehold/tenant")

// Store is the persistence contract for the tenant service.
type Store interface {
	Register(ctx context.Context, tenant *models.Tenant) error
	FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error)
	List(ctx context.Context) ([]*models.Tenant, error)
	PaymentHistory(ctx context.Context, tenantID id.TenantID) ([]*paymentmodels.Payment, error)
	AppendPaymentHistory(ctx context.Context, tenantID id.TenantID, payment *paymentmodels.Payment) error
}

// Config carries the tenant approval policy knobs.
type Config struct {
	MinimumCreditScore       float64
	MinimumIncomeToRentRatio float64
}

type serviceConfig struct {
	logger         *slog.Logger
	auditPublisher audit.Publisher
}

// Option customizes optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(c *serviceConfig) { c.auditPublisher = publisher }
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
