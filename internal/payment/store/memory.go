package store

import (
	"context"
	"fmt"
	"sync"

	"leasehold/internal/payment/models"
	id "leasehold/pkg/domain"
)

// InMemory keeps payments in process memory: one ordered list of records,
// a per-tenant index and a per-tenant running balance. The balance tracks
// the amount paid, so it decreases (goes negative) as completed payments
// accrue. Records are never removed.
type InMemory struct {
	mu             sync.RWMutex
	payments       []*models.Payment
	tenantPayments map[id.TenantID][]*models.Payment
	tenantBalances map[id.TenantID]float64
}

func NewInMemory() *InMemory {
	return &InMemory{
		tenantPayments: make(map[id.TenantID][]*models.Payment),
		tenantBalances: make(map[id.TenantID]float64),
	}
}

// Append records the payment in the list and the tenant index. A payment
// arriving without an ID is assigned the next "PAY<n>" under the same lock
// as the insert, so concurrent appends cannot mint the same ID. A completed
// payment decrements the tenant's balance by the paid amount.
func (s *InMemory) Append(_ context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if payment.ID.IsNil() {
		payment.ID = id.PaymentID(fmt.Sprintf("PAY%d", len(s.payments)+1))
	}
	s.payments = append(s.payments, payment)
	s.tenantPayments[payment.TenantID] = append(s.tenantPayments[payment.TenantID], payment)
	if payment.Status == models.StatusCompleted {
		s.tenantBalances[payment.TenantID] -= payment.Amount
	}
	return nil
}

// List returns all payments in recording order.
func (s *InMemory) List(_ context.Context) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Payment{}, s.payments...), nil
}

// ByTenant returns a tenant's payments, empty for unknown tenants.
func (s *InMemory) ByTenant(_ context.Context, tenantID id.TenantID) ([]*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.Payment{}, s.tenantPayments[tenantID]...), nil
}

// Balance returns a tenant's running balance, zero for unknown tenants.
func (s *InMemory) Balance(_ context.Context, tenantID id.TenantID) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tenantBalances[tenantID], nil
}
