package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"leasehold/internal/audit"
	"leasehold/internal/tenant/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/sentinel"
	"leasehold/pkg/requestcontext"
)

// Score thresholds on the tenant payment score, out of 100.
const (
	goodHistoryScore = 80.0
	renewalScore     = 90.0
	upgradeScore     = 95.0
)

// TenantService owns the tenant registry and the application-approval gate.
//
// The payment score is computed from the service's own history store, which
// the payment module does not feed. Unless history is seeded explicitly,
// every tenant scores a clean 100.
type TenantService struct {
	store          Store
	logger         *slog.Logger
	auditPublisher audit.Publisher

	mu                       sync.RWMutex
	minimumCreditScore       float64
	minimumIncomeToRentRatio float64
}

func New(store Store, cfg Config, opts ...Option) *TenantService {
	sc := &serviceConfig{}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.logger == nil {
		sc.logger = slog.Default()
	}

	s := &TenantService{
		store:          store,
		logger:         sc.logger,
		auditPublisher: sc.auditPublisher,
	}
	s.SetMinimumCreditScore(cfg.MinimumCreditScore)
	s.SetMinimumIncomeToRentRatio(cfg.MinimumIncomeToRentRatio)
	return s
}

// SetMinimumCreditScore updates the credit floor, clamped to [300, 850].
func (s *TenantService) SetMinimumCreditScore(score float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if score < 300 {
		score = 300
	}
	if score > 850 {
		score = 850
	}
	s.minimumCreditScore = score
}

// SetMinimumIncomeToRentRatio updates the income ratio, clamped to ≥0.1.
func (s *TenantService) SetMinimumIncomeToRentRatio(ratio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ratio < 0.1 {
		ratio = 0.1
	}
	s.minimumIncomeToRentRatio = ratio
}

// Register records a tenant in the registry. Re-registering the same id is
// allowed and appends another record.
func (s *TenantService) Register(ctx context.Context, tenant *models.Tenant) error {
	ctx, span := startSpan(ctx, "TenantService.Register")
	defer span.End()

	if tenant == nil {
		return dErrors.New(dErrors.CodeBadRequest, "tenant is required")
	}
	span.SetAttributes(attribute.String("tenant_id", tenant.ID.String()))

	if err := s.store.Register(ctx, tenant); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register tenant")
	}

	s.emit(ctx, audit.Event{
		Action:   audit.ActionTenantRegistered,
		TenantID: tenant.ID,
	})
	return nil
}

// ApproveApplication runs the approval gate for a registered tenant against
// a proposed rent: credit score at or above the floor, income at or above
// rent times the configured ratio, and a good payment history. An unknown
// tenant is rejected, not an error.
func (s *TenantService) ApproveApplication(ctx context.Context, tenantID id.TenantID, proposedRent float64) (bool, error) {
	ctx, span := startSpan(ctx, "TenantService.ApproveApplication",
		attribute.String("tenant_id", tenantID.String()),
	)
	defer span.End()

	tenant, err := s.store.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up tenant")
	}

	s.mu.RLock()
	minCredit, minRatio := s.minimumCreditScore, s.minimumIncomeToRentRatio
	s.mu.RUnlock()

	good, err := s.HasGoodPaymentHistory(ctx, tenantID)
	if err != nil {
		return false, err
	}
	approved := tenant.CreditScore >= minCredit &&
		tenant.MonthlyIncome >= proposedRent*minRatio &&
		good

	action := audit.ActionTenantApproved
	if !approved {
		action = audit.ActionTenantRejected
	}
	s.emit(ctx, audit.Event{
		Action:   action,
		TenantID: tenantID,
		Amount:   proposedRent,
	})
	s.logger.InfoContext(ctx, "tenant application evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"tenant_id", tenantID,
		"proposed_rent", proposedRent,
		"approved", approved,
	)
	return approved, nil
}

// PaymentScore scores a tenant's recorded payment history out of 100. No
// history scores a clean 100.
//
// The on-time check compares each payment's date against itself and so
// always passes; with any history at all the score stays 100. This mirrors
// the historical scorer and reports built on it, so it is preserved rather
// than corrected. The tests pin it.
func (s *TenantService) PaymentScore(ctx context.Context, tenantID id.TenantID) (float64, error) {
	history, err := s.store.PaymentHistory(ctx, tenantID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load payment history")
	}
	if len(history) == 0 {
		return 100.0, nil
	}
	onTime := 0
	for _, p := range history {
		if p.IsOnTime(p.Date) {
			onTime++
		}
	}
	return 100.0 * float64(onTime) / float64(len(history)), nil
}

// HasGoodPaymentHistory reports whether the tenant scores at least 80.
func (s *TenantService) HasGoodPaymentHistory(ctx context.Context, tenantID id.TenantID) (bool, error) {
	score, err := s.PaymentScore(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return score >= goodHistoryScore, nil
}

// CanRenewLease reports whether the tenant has good history and scores at
// least 90.
func (s *TenantService) CanRenewLease(ctx context.Context, tenantID id.TenantID) (bool, error) {
	good, err := s.HasGoodPaymentHistory(ctx, tenantID)
	if err != nil {
		return false, err
	}
	score, err := s.PaymentScore(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return good && score >= renewalScore, nil
}

// SearchByCriteria returns registered tenants meeting both thresholds,
// inclusive.
func (s *TenantService) SearchByCriteria(ctx context.Context, minCreditScore, minIncome float64) ([]*models.Tenant, error) {
	tenants, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tenants")
	}
	matches := []*models.Tenant{}
	for _, t := range tenants {
		if t.CreditScore >= minCreditScore && t.MonthlyIncome >= minIncome {
			matches = append(matches, t)
		}
	}
	return matches, nil
}

// EligibleForUpgrade reports whether a registered tenant can move to a more
// expensive unit: income covering the new rent at the configured ratio,
// good history, and a score of at least 95. Unknown tenants are ineligible.
func (s *TenantService) EligibleForUpgrade(ctx context.Context, tenantID id.TenantID, newRent float64) (bool, error) {
	tenant, err := s.store.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return false, nil
		}
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up tenant")
	}

	s.mu.RLock()
	minRatio := s.minimumIncomeToRentRatio
	s.mu.RUnlock()

	good, err := s.HasGoodPaymentHistory(ctx, tenantID)
	if err != nil {
		return false, err
	}
	score, err := s.PaymentScore(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return tenant.MonthlyIncome >= newRent*minRatio && good && score >= upgradeScore, nil
}

// FindByID resolves a registered tenant.
func (s *TenantService) FindByID(ctx context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	tenant, err := s.store.FindByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up tenant")
	}
	return tenant, nil
}

func (s *TenantService) emit(ctx context.Context, event audit.Event) {
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
