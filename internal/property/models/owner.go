package models

import (
	"time"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// Owner is a leaf entity referenced by contracts through its ID.
type Owner struct {
	ID        id.OwnerID `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
}

// NewOwner validates and constructs an owner record.
func NewOwner(ownerID id.OwnerID, name, email string, now time.Time) (*Owner, error) {
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner id cannot be empty")
	}
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "owner name cannot be empty")
	}
	return &Owner{ID: ownerID, Name: name, Email: email, CreatedAt: now}, nil
}
