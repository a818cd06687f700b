package store

import (
	"context"
	"sync"

	"leasehold/internal/property/models"
	id "leasehold/pkg/domain"
	"leasehold/pkg/platform/sentinel"
)

// InMemoryPropertyStore is the registry of known properties.
type InMemoryPropertyStore struct {
	mu         sync.RWMutex
	properties map[id.PropertyID]*models.Property
}

func NewInMemoryPropertyStore() *InMemoryPropertyStore {
	return &InMemoryPropertyStore{properties: make(map[id.PropertyID]*models.Property)}
}

func (s *InMemoryPropertyStore) Create(_ context.Context, property *models.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.properties[property.ID]; exists {
		return sentinel.ErrConflict
	}
	s.properties[property.ID] = property
	return nil
}

func (s *InMemoryPropertyStore) FindByID(_ context.Context, propertyID id.PropertyID) (*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	property, ok := s.properties[propertyID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return property, nil
}

func (s *InMemoryPropertyStore) List(_ context.Context) ([]*models.Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Property, 0, len(s.properties))
	for _, p := range s.properties {
		out = append(out, p)
	}
	return out, nil
}

// InMemoryOwnerStore is the registry of known owners.
type InMemoryOwnerStore struct {
	mu     sync.RWMutex
	owners map[id.OwnerID]*models.Owner
}

func NewInMemoryOwnerStore() *InMemoryOwnerStore {
	return &InMemoryOwnerStore{owners: make(map[id.OwnerID]*models.Owner)}
}

func (s *InMemoryOwnerStore) Create(_ context.Context, owner *models.Owner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.owners[owner.ID]; exists {
		return sentinel.ErrConflict
	}
	s.owners[owner.ID] = owner
	return nil
}

func (s *InMemoryOwnerStore) FindByID(_ context.Context, ownerID id.OwnerID) (*models.Owner, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.owners[ownerID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return owner, nil
}
