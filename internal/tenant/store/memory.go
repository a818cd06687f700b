package store

import (
	"context"
	"sync"

	paymentmodels "leasehold/internal/payment/models"
	"leasehold/internal/tenant/models"
	id "leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

// InMemory keeps the tenant registry in process memory. Registration is an
// append, duplicates included; lookups return the first match. The store
// carries its own payment-history map, deliberately not fed by the payment
// module: history stays empty until a caller appends records explicitly, so
// fresh tenants score clean.
type InMemory struct {
	mu             sync.RWMutex
	tenants        []*models.Tenant
	paymentHistory map[id.TenantID][]*paymentmodels.Payment
}

func NewInMemory() *InMemory {
	return &InMemory{
		paymentHistory: make(map[id.TenantID][]*paymentmodels.Payment),
	}
}

// Register appends the tenant. No uniqueness check: registering the same
// tenant twice records it twice.
func (s *InMemory) Register(_ context.Context, tenant *models.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants = append(s.tenants, tenant)
	return nil
}

// FindByID returns the first registered tenant with the given id.
func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tenants {
		if t.ID == tenantID {
			return t, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns all registered tenants in registration order.
func (s *InMemory) List(_ context.Context) ([]*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Tenant{}, s.tenants...), nil
}

// PaymentHistory returns the tenant's recorded history, empty by default.
func (s *InMemory) PaymentHistory(_ context.Context, tenantID id.TenantID) ([]*paymentmodels.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*paymentmodels.Payment{}, s.paymentHistory[tenantID]...), nil
}

// AppendPaymentHistory records a payment against the tenant's history.
// Nothing calls this on the request path; it is the seam through which
// tests and future reconciliation jobs seed history.
func (s *InMemory) AppendPaymentHistory(_ context.Context, tenantID id.TenantID, payment *paymentmodels.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paymentHistory[tenantID] = append(s.paymentHistory[tenantID], payment)
	return nil
}
