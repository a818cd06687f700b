package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"leasehold/internal/contract/models"
	id "leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

// InMemory keeps the canonical contract collection plus the two derived
// indices the domain queries rely on:
//
//   - byProperty maps a property to its most recent contract. Each new
//     contract for a property overwrites the entry; only the store-level
//     Terminate clears it, and it does so unconditionally by the
//     terminated contract's property ID even if the index meanwhile
//     points at a newer contract. Both behaviors are load-bearing.
//   - historyByTenant is append-only: every contract ever created for a
//     tenant, terminated or not.
//
// Contracts are never removed, so "CNTR<n>" IDs stay monotonic.
type InMemory struct {
	mu              sync.RWMutex
	contracts       []*models.RentalContract
	byProperty      map[id.PropertyID]*models.RentalContract
	historyByTenant map[id.TenantID][]*models.RentalContract
}

func NewInMemory() *InMemory {
	return &InMemory{
		byProperty:      make(map[id.PropertyID]*models.RentalContract),
		historyByTenant: make(map[id.TenantID][]*models.RentalContract),
	}
}

// CreateIfPropertyFree inserts the contract unless its property already has
// a contract valid at now. A contract arriving without an ID is assigned
// the next "CNTR<n>". The conflict check, the ID assignment and the insert
// all hold the lock together, so two creations cannot mint the same ID or
// both pass the property check.
func (s *InMemory) CreateIfPropertyFree(_ context.Context, contract *models.RentalContract, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.byProperty[contract.PropertyID]; ok && existing.IsValid(now) {
		return sentinel.ErrConflict
	}

	if contract.ID.IsNil() {
		contract.ID = id.ContractID(fmt.Sprintf("CNTR%d", len(s.contracts)+1))
	}
	s.contracts = append(s.contracts, contract)
	s.byProperty[contract.PropertyID] = contract
	s.historyByTenant[contract.TenantID] = append(s.historyByTenant[contract.TenantID], contract)
	return nil
}

// FindByID linear-scans the collection in insertion order.
func (s *InMemory) FindByID(_ context.Context, contractID id.ContractID) (*models.RentalContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.contracts {
		if c.ID == contractID {
			return c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// FindByProperty returns the index entry for the property regardless of its
// validity: a stale expired or terminated contract is returned as-is when
// the index was never cleared for it.
func (s *InMemory) FindByProperty(_ context.Context, propertyID id.PropertyID) (*models.RentalContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byProperty[propertyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return c, nil
}

// Terminate deactivates the contract and clears the property index entry
// for the contract's property. The clear is unconditional: it does not
// verify the index still points at this contract. Terminating an already
// inactive contract succeeds again (the entity-level flag is idempotent).
func (s *InMemory) Terminate(_ context.Context, contractID id.ContractID) (*models.RentalContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contracts {
		if c.ID == contractID {
			c.Terminate()
			delete(s.byProperty, c.PropertyID)
			return c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// Execute runs validate-then-mutate on a contract under the store lock.
func (s *InMemory) Execute(_ context.Context, contractID id.ContractID, validate func(*models.RentalContract) error, apply func(*models.RentalContract)) (*models.RentalContract, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.contracts {
		if c.ID == contractID {
			if err := validate(c); err != nil {
				return nil, err
			}
			apply(c)
			return c, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

// List returns all contracts in insertion order.
func (s *InMemory) List(_ context.Context) ([]*models.RentalContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.RentalContract{}, s.contracts...), nil
}

// HistoryByTenant returns every contract ever created for the tenant.
// Unknown tenants get an empty history, not an error.
func (s *InMemory) HistoryByTenant(_ context.Context, tenantID id.TenantID) ([]*models.RentalContract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*models.RentalContract{}, s.historyByTenant[tenantID]...), nil
}
