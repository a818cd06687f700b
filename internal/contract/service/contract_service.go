package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"leasehold/internal/audit"
	contractmetrics "leasehold/internal/contract/metrics"
	"leasehold/internal/contract/models"
	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
	"leasehold/pkg/platform/sentinel"
	"leasehold/pkg/requestcontext"
)

// ContractService orchestrates rental contract lifecycle and policy.
type ContractService struct {
	store          Store
	logger         *slog.Logger
	auditPublisher audit.Publisher
	metrics        *contractmetrics.Metrics

	autoRenewalNoticeDays     int
	securityDepositMultiplier float64
	maxLeaseTermMonths        int

	mu              sync.RWMutex
	standardClauses []string
}

func New(store Store, cfg Config, opts ...Option) *ContractService {
	sc := &serviceConfig{}
	for _, opt := range opts {
		opt(sc)
	}
	if sc.logger == nil {
		sc.logger = slog.Default()
	}

	s := &ContractService{
		store:                 store,
		logger:                sc.logger,
		auditPublisher:        sc.auditPublisher,
		metrics:               sc.metrics,
		autoRenewalNoticeDays: cfg.AutoRenewalNoticeDays,
		standardClauses:       append([]string{}, cfg.StandardClauses...),
	}
	s.SetSecurityDepositMultiplier(cfg.SecurityDepositMultiplier)
	s.SetMaxLeaseTermMonths(cfg.MaxLeaseTermMonths)
	return s
}

// SetSecurityDepositMultiplier updates the deposit policy, clamped to ≥1.0.
func (s *ContractService) SetSecurityDepositMultiplier(multiplier float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if multiplier < 1.0 {
		multiplier = 1.0
	}
	s.securityDepositMultiplier = multiplier
}

// SetMaxLeaseTermMonths updates the lease-term ceiling, clamped to ≥1.
func (s *ContractService) SetMaxLeaseTermMonths(months int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if months < 1 {
		months = 1
	}
	s.maxLeaseTermMonths = months
}

// AddStandardClause appends a clause to the standard set. Append-only.
func (s *ContractService) AddStandardClause(clause string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.standardClauses = append(s.standardClauses, clause)
}

// StandardClauses returns a copy of the standard clause set.
func (s *ContractService) StandardClauses() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.standardClauses...)
}

// IsLeaseTermValid reports whether months is inside [1, max].
func (s *ContractService) IsLeaseTermValid(months int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return months >= 1 && months <= s.maxLeaseTermMonths
}

// RequiredSecurityDeposit computes the deposit for a given rent.
func (s *ContractService) RequiredSecurityDeposit(monthlyRent float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return monthlyRent * s.securityDepositMultiplier
}

// CreateContract validates policy and inserts a new contract.
//
// Failure cases, in check order: missing references, lease term outside
// [1, max], property already under a valid contract at the request time.
// The lease window is startDate plus leaseTermMonths 30-day buckets; the
// deposit is rent times the configured multiplier.
func (s *ContractService) CreateContract(ctx context.Context, propertyID id.PropertyID, tenantID id.TenantID, ownerID id.OwnerID,
	startDate time.Time, leaseTermMonths int, monthlyRent float64, paymentTerms string) (*models.RentalContract, error) {
	ctx, span := startSpan(ctx, "ContractService.CreateContract",
		attribute.String("property_id", propertyID.String()),
		attribute.String("tenant_id", tenantID.String()),
	)
	defer span.End()
	start := time.Now()

	if propertyID.IsNil() || tenantID.IsNil() || ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "property, tenant and owner are required")
	}
	if !s.IsLeaseTermValid(leaseTermMonths) {
		return nil, dErrors.New(dErrors.CodeValidation, "lease term months out of range")
	}

	now := requestcontext.Now(ctx)
	endDate := startDate.Add(time.Duration(leaseTermMonths) * 30 * 24 * time.Hour)

	// The store assigns the CNTR id at insert, under the same lock as the
	// property check, so concurrent creations cannot share an id.
	contract, err := models.NewRentalContract("", propertyID, tenantID, ownerID,
		startDate, endDate, monthlyRent, s.RequiredSecurityDeposit(monthlyRent), paymentTerms, now)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateIfPropertyFree(ctx, contract, now); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "property already has a valid contract")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create contract")
	}

	s.emit(ctx, audit.Event{
		Action:     audit.ActionContractCreated,
		ContractID: contract.ID,
		PropertyID: propertyID,
		TenantID:   tenantID,
		OwnerID:    ownerID,
		Amount:     monthlyRent,
	})
	if s.metrics != nil {
		s.metrics.IncrementContractsCreated()
		s.metrics.ObserveCreateContract(start)
	}
	return contract, nil
}

// Terminate deactivates a contract and clears its property index entry.
// The reason is logged and carried on the audit event but never stored on
// the contract record. Termination of an already inactive contract still
// succeeds; contracts are never removed from the collection.
func (s *ContractService) Terminate(ctx context.Context, contractID id.ContractID, reason string) (*models.RentalContract, error) {
	ctx, span := startSpan(ctx, "ContractService.Terminate",
		attribute.String("contract_id", contractID.String()),
	)
	defer span.End()

	if contractID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "contract id is required")
	}

	contract, err := s.store.Terminate(ctx, contractID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "contract not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to terminate contract")
	}

	s.logger.InfoContext(ctx, "contract terminated",
		"request_id", requestcontext.RequestID(ctx),
		"contract_id", contract.ID,
		"property_id", contract.PropertyID,
		"reason", reason,
	)
	s.emit(ctx, audit.Event{
		Action:     audit.ActionContractTerminated,
		ContractID: contract.ID,
		PropertyID: contract.PropertyID,
		TenantID:   contract.TenantID,
		Reason:     reason,
	})
	if s.metrics != nil {
		s.metrics.IncrementContractsTerminated()
	}
	return contract, nil
}

// Renew updates the rent on an active contract for a renewal term.
//
// Only the Active flag gates renewal: a contract past its end date but
// never terminated can still be renewed, and the end date is not extended.
// Both are legacy behaviors the reporting pipeline depends on.
func (s *ContractService) Renew(ctx context.Context, contractID id.ContractID, renewalTermMonths int, newRent float64) (*models.RentalContract, error) {
	ctx, span := startSpan(ctx, "ContractService.Renew",
		attribute.String("contract_id", contractID.String()),
	)
	defer span.End()

	if !s.IsLeaseTermValid(renewalTermMonths) {
		return nil, dErrors.New(dErrors.CodeValidation, "renewal term months out of range")
	}

	contract, err := s.store.Execute(ctx, contractID,
		func(c *models.RentalContract) error {
			if !c.Active {
				return sentinel.ErrNotFound
			}
			return nil
		},
		func(c *models.RentalContract) {
			c.ApplyRenewal(newRent)
		},
	)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "active contract not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to renew contract")
	}

	s.emit(ctx, audit.Event{
		Action:     audit.ActionContractRenewed,
		ContractID: contract.ID,
		TenantID:   contract.TenantID,
		Amount:     newRent,
	})
	if s.metrics != nil {
		s.metrics.IncrementContractsRenewed()
	}
	return contract, nil
}

// FindByProperty returns the property index entry as-is, valid or not.
func (s *ContractService) FindByProperty(ctx context.Context, propertyID id.PropertyID) (*models.RentalContract, error) {
	contract, err := s.store.FindByProperty(ctx, propertyID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "no contract for property")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up contract")
	}
	return contract, nil
}

// ActiveContracts returns all contracts valid at the request time.
func (s *ContractService) ActiveContracts(ctx context.Context) ([]*models.RentalContract, error) {
	contracts, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	now := requestcontext.Now(ctx)
	active := []*models.RentalContract{}
	for _, c := range contracts {
		if c.IsValid(now) {
			active = append(active, c)
		}
	}
	return active, nil
}

// ContractsNeedingRenewalNotice returns valid contracts inside the
// configured auto-renewal notice window.
func (s *ContractService) ContractsNeedingRenewalNotice(ctx context.Context) ([]*models.RentalContract, error) {
	return s.ExpiringContracts(ctx, s.autoRenewalNoticeDays)
}

// ExpiringContracts returns valid contracts with at most daysThreshold
// days remaining.
func (s *ContractService) ExpiringContracts(ctx context.Context, daysThreshold int) ([]*models.RentalContract, error) {
	contracts, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	now := requestcontext.Now(ctx)
	expiring := []*models.RentalContract{}
	for _, c := range contracts {
		if c.IsValid(now) && c.RemainingDays(now) <= daysThreshold {
			expiring = append(expiring, c)
		}
	}
	return expiring, nil
}

// TotalSecurityDeposits sums deposits over contracts valid at the request time.
func (s *ContractService) TotalSecurityDeposits(ctx context.Context) (float64, error) {
	contracts, err := s.store.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	now := requestcontext.Now(ctx)
	var total float64
	for _, c := range contracts {
		if c.IsValid(now) {
			total += c.SecurityDeposit
		}
	}
	return total, nil
}

// TotalMonthlyRent sums rent over contracts valid at the request time.
func (s *ContractService) TotalMonthlyRent(ctx context.Context) (float64, error) {
	contracts, err := s.store.List(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list contracts")
	}
	now := requestcontext.Now(ctx)
	var total float64
	for _, c := range contracts {
		if c.IsValid(now) {
			total += c.MonthlyRent
		}
	}
	return total, nil
}

// CanTenantRentAnother gates tenants at two concurrently valid contracts.
// A tenant with no history can always rent.
func (s *ContractService) CanTenantRentAnother(ctx context.Context, tenantID id.TenantID) (bool, error) {
	history, err := s.store.HistoryByTenant(ctx, tenantID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant history")
	}
	now := requestcontext.Now(ctx)
	valid := 0
	for _, c := range history {
		if c.IsValid(now) {
			valid++
		}
	}
	return valid < 2, nil
}

// HasContractViolations scans a tenant's history for inactive contracts
// more than 30 days past their end date.
//
// RemainingDays is clamped to zero, so the inner predicate can never hold
// and this always reports false. Legacy behavior, intentionally preserved;
// see the service tests pinning it.
func (s *ContractService) HasContractViolations(ctx context.Context, tenantID id.TenantID) (bool, error) {
	history, err := s.store.HistoryByTenant(ctx, tenantID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant history")
	}
	now := requestcontext.Now(ctx)
	for _, c := range history {
		if !c.Active && c.RemainingDays(now) < -30 {
			return true, nil
		}
	}
	return false, nil
}

func (s *ContractService) emit(ctx context.Context, event audit.Event) {
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
