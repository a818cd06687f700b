package service

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"leasehold/internal/audit"
	contractmetrics "leasehold/internal/contract/metrics"
	"leasehold/internal/contract/models"
	id "leasehold/pkg/domain"
)

var tracer = otel.Tracer("leasehold/contract")

// Store is the contract collection the service orchestrates. Implementations
// must keep the property index and tenant history consistent under their own
// locking, and assign the sequential contract ID atomically with the insert;
// the service never holds cross-call state.
type Store interface {
	CreateIfPropertyFree(ctx context.Context, contract *models.RentalContract, now time.Time) error
	FindByID(ctx context.Context, contractID id.ContractID) (*models.RentalContract, error)
	FindByProperty(ctx context.Context, propertyID id.PropertyID) (*models.RentalContract, error)
	Terminate(ctx context.Context, contractID id.ContractID) (*models.RentalContract, error)
	Execute(ctx context.Context, contractID id.ContractID, validate func(*models.RentalContract) error, apply func(*models.RentalContract)) (*models.RentalContract, error)
	List(ctx context.Context) ([]*models.RentalContract, error)
	HistoryByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.RentalContract, error)
}

// Config carries contract policy. Zero values are clamped to the floors the
// policy defines, so a partially filled config is still safe.
type Config struct {
	AutoRenewalNoticeDays     int
	SecurityDepositMultiplier float64
	MaxLeaseTermMonths        int
	StandardClauses           []string
}

type serviceConfig struct {
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *contractmetrics.Metrics
}

// Option customizes optional service dependencies.
type Option func(*serviceConfig)

func WithLogger(logger *slog.Logger) Option {
	return func(c *serviceConfig) { c.logger = logger }
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(c *serviceConfig) { c.auditPublisher = publisher }
}

func WithMetrics(m *contractmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
