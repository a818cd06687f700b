package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"leasehold/internal/audit"
	paymentmetrics "leasehold/internal/payment/metrics"
	"leasehold/internal/payment/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/requestcontext"
)

// PaymentService orchestrates payment recording and aggregation.
type PaymentService struct {
	store          Store
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *paymentmetrics.Metrics
	balanceMirror  BalanceMirror

	defaultPaymentMethod string

	mu              sync.RWMutex
	lateFeeRate     float64
	gracePeriodDays int
}

func New(store Store, cfg Config, opts ...Option) *PaymentService {
	sc := &serviceConfig{}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.logger == nil {
		sc.logger = slog.Default()
	}

	s := &PaymentService{
		store:                store,
		logger:               sc.logger,
		auditPublisher:       sc.auditPublisher,
		metrics:              sc.metrics,
		balanceMirror:        sc.balanceMirror,
		defaultPaymentMethod: cfg.DefaultPaymentMethod,
	}
	s.SetLateFeeRate(cfg.LateFeeRate)
	s.SetGracePeriodDays(cfg.GracePeriodDays)
	return s
}

// SetLateFeeRate updates the late fee rate, clamped to ≥0.
func (s *PaymentService) SetLateFeeRate(rate float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rate < 0 {
		rate = 0
	}
	s.lateFeeRate = rate
}

// SetGracePeriodDays updates the late fee grace period, clamped to ≥0.
func (s *PaymentService) SetGracePeriodDays(days int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if days < 0 {
		days = 0
	}
	s.gracePeriodDays = days
}

// Process validates a payment and appends it to the store. A completed
// payment also pushes a balance adjustment to the mirror when one is wired.
func (s *PaymentService) Process(ctx context.Context, payment *models.Payment) error {
	ctx, span := startSpan(ctx, "PaymentService.Process")
	defer span.End()
	start := time.Now()

	if payment == nil {
		s.reject()
		return dErrors.New(dErrors.CodeBadRequest, "payment is required")
	}
	span.SetAttributes(attribute.String("tenant_id", payment.TenantID.String()))
	if payment.TenantID.IsNil() {
		s.reject()
		return dErrors.New(dErrors.CodeBadRequest, "payment tenant is required")
	}

	if err := s.store.Append(ctx, payment); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record payment")
	}

	if payment.Status == models.StatusCompleted && s.balanceMirror != nil {
		if err := s.balanceMirror.Adjust(ctx, payment.TenantID, -payment.Amount); err != nil {
			s.logger.WarnContext(ctx, "failed to mirror tenant balance",
				"request_id", requestcontext.RequestID(ctx),
				"tenant_id", payment.TenantID,
				"error", err,
			)
		}
	}

	s.emit(ctx, audit.Event{
		Action:     audit.ActionPaymentRecorded,
		PaymentID:  payment.ID,
		TenantID:   payment.TenantID,
		ContractID: payment.ContractID,
		Amount:     payment.Amount,
	})
	if s.metrics != nil {
		s.metrics.RecordPayment(payment.Status)
		s.metrics.ObserveProcessPayment(start)
	}
	return nil
}

// RecordRentPayment builds a completed payment for a tenant and contract
// and processes it. The method falls back to the configured default and the
// transaction id is freshly generated.
func (s *PaymentService) RecordRentPayment(ctx context.Context, tenantID id.TenantID, contractID id.ContractID,
	amount float64, paymentDate time.Time, method, period string) (*models.Payment, error) {
	ctx, span := startSpan(ctx, "PaymentService.RecordRentPayment",
		attribute.String("tenant_id", tenantID.String()),
		attribute.String("contract_id", contractID.String()),
	)
	defer span.End()

	if tenantID.IsNil() || contractID.IsNil() {
		s.reject()
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant and contract are required")
	}
	if method == "" {
		method = s.defaultPaymentMethod
	}

	// The store assigns the PAY id atomically with the append.
	payment, err := models.NewPayment("", tenantID, contractID,
		amount, paymentDate, method, models.StatusCompleted, period)
	if err != nil {
		return nil, err
	}
	payment.TransactionID = uuid.NewString()

	if err := s.Process(ctx, payment); err != nil {
		return nil, err
	}
	return payment, nil
}

// LateFee computes the fee for a payment daysLate days past due. Days
// within the grace period are free; beyond it the fee grows linearly in
// both amount and excess days, with no cap.
func (s *PaymentService) LateFee(amount float64, daysLate int) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if daysLate <= s.gracePeriodDays {
		return 0
	}
	return amount * s.lateFeeRate * float64(daysLate-s.gracePeriodDays)
}

// TenantBalance returns the running balance, zero for unknown tenants.
func (s *PaymentService) TenantBalance(ctx context.Context, tenantID id.TenantID) (float64, error) {
	balance, err := s.store.Balance(ctx, tenantID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant balance")
	}
	return balance, nil
}

// OverduePayments returns payments overdue at the request time. Each
// payment applies the fixed overdue threshold, not the late fee grace
// period; the two rules are intentionally separate.
func (s *PaymentService) OverduePayments(ctx context.Context) ([]*models.Payment, error) {
	payments, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list payments")
	}
	asOf := requestcontext.Now(ctx)
	overdue := []*models.Payment{}
	for _, p := range payments {
		if p.IsOverdue(asOf) {
			overdue = append(overdue, p)
		}
	}
	return overdue, nil
}

// TotalRevenue sums completed payment amounts dated within [start, end],
// both ends inclusive.
func (s *PaymentService) TotalRevenue(ctx context.Context, start, end time.Time) (float64, error) {
	payments, err := s.store.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list payments")
	}
	var total float64
	for _, p := range payments {
		if p.Status == models.StatusCompleted && inRange(p.Date, start, end) {
			total += p.Amount
		}
	}
	return total, nil
}

// HasMissedPayments reports whether the tenant's count of overdue,
// non-completed payments exceeds maxAllowed.
func (s *PaymentService) HasMissedPayments(ctx context.Context, tenantID id.TenantID, maxAllowed int) (bool, error) {
	payments, err := s.store.ByTenant(ctx, tenantID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant payments")
	}
	now := requestcontext.Now(ctx)
	missed := 0
	for _, p := range payments {
		if p.IsOverdue(now) && p.Status != models.StatusCompleted {
			missed++
		}
	}
	return missed > maxAllowed, nil
}

// CollectionRate returns the percentage of payments dated within
// [start, end] that completed. An empty range reports 100.
func (s *PaymentService) CollectionRate(ctx context.Context, start, end time.Time) (float64, error) {
	payments, err := s.store.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list payments")
	}
	var total, completed int
	for _, p := range payments {
		if !inRange(p.Date, start, end) {
			continue
		}
		total++
		if p.Status == models.StatusCompleted {
			completed++
		}
	}
	if total == 0 {
		return 100.0, nil
	}
	return 100.0 * float64(completed) / float64(total), nil
}

// PaymentsByTenant returns a tenant's payments, empty for unknown tenants.
func (s *PaymentService) PaymentsByTenant(ctx context.Context, tenantID id.TenantID) ([]*models.Payment, error) {
	payments, err := s.store.ByTenant(ctx, tenantID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant payments")
	}
	return payments, nil
}

func inRange(date, start, end time.Time) bool {
	return !date.Before(start) && !date.After(end)
}

func (s *PaymentService) reject() {
	if s.metrics != nil {
		s.metrics.RecordRejection()
	}
}

func (s *PaymentService) emit(ctx context.Context, event audit.Event) {
	if s.auditPublisher == nil {
		return
	}
	event.RequestID = requestcontext.RequestID(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
