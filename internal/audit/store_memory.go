package audit

import (
	"context"
	"sync"
)

// InMemoryStore keeps audit events in memory, grouped by tenant for the
// common "show me this tenant's history" query.
type InMemoryStore struct {
	mu     sync.RWMutex
	all    []Event
	events map[string][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[string][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, event)
	if !event.TenantID.IsNil() {
		key := event.TenantID.String()
		s.events[key] = append(s.events[key], event)
	}
	return nil
}

func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID string) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[tenantID]...), nil
}

// ListRecent returns the most recent N events across all tenants.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := len(s.all) - limit
	if start < 0 {
		start = 0
	}
	return append([]Event{}, s.all[start:]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = nil
	s.events = make(map[string][]Event)
}
