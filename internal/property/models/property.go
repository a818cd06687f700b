package models

import (
	"time"

	id "leasehold/pkg/domain"
	dErrors "leasehold/pkg/domain-errors"
)

// PropertyStatus tracks whether a property can be offered for lease.
type PropertyStatus string

const (
	PropertyStatusAvailable   PropertyStatus = "available"
	PropertyStatusLeased      PropertyStatus = "leased"
	PropertyStatusMaintenance PropertyStatus = "maintenance"
)

// IsValid checks the status is one of the supported values.
func (s PropertyStatus) IsValid() bool {
	switch s {
	case PropertyStatusAvailable, PropertyStatusLeased, PropertyStatusMaintenance:
		return true
	}
	return false
}

// Property is a leaf entity referenced by contracts through its ID.
// The contract core reads only ID and RentalPrice; the rest is registry
// bookkeeping for the admin surface.
type Property struct {
	ID          id.PropertyID  `json:"id"`
	OwnerID     id.OwnerID     `json:"owner_id"`
	Address     string         `json:"address"`
	RentalPrice float64        `json:"rental_price"`
	Status      PropertyStatus `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NewProperty validates and constructs a property record.
func NewProperty(propertyID id.PropertyID, ownerID id.OwnerID, address string, rentalPrice float64, now time.Time) (*Property, error) {
	if propertyID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "property id cannot be empty")
	}
	if rentalPrice < 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "rental price cannot be negative")
	}
	return &Property{
		ID:          propertyID,
		OwnerID:     ownerID,
		Address:     address,
		RentalPrice: rentalPrice,
		Status:      PropertyStatusAvailable,
		CreatedAt:   now,
	}, nil
}
