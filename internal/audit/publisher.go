package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists audit events append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByTenant(ctx context.Context, tenantID string) ([]Event, error)
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// Publisher captures structured audit events. Implementations must be safe
// for concurrent use; emission failures are the caller's to handle.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// StorePublisher writes events straight to a store. Used in tests and as
// the synchronous fallback when no worker is wired.
type StorePublisher struct {
	store Store
}

func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	return p.store.Append(ctx, stamp(event))
}

// ChannelPublisher hands events to a background worker. Emission never
// blocks domain operations: if the inbox is full the event is dropped,
// which is acceptable for operational audit (not a compliance ledger).
type ChannelPublisher struct {
	inbox chan<- Event
}

func NewChannelPublisher(inbox chan<- Event) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	select {
	case p.inbox <- stamp(event):
	default:
	}
	return nil
}

func stamp(event Event) Event {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	return event
}
